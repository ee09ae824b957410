package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(raw string) ResourceAmounts {
	var ra ResourceAmounts
	if err := json.Unmarshal([]byte(raw), &ra); err != nil {
		panic(err)
	}
	return ra
}

func TestCanonicalAmountShapes(t *testing.T) {
	ra := amounts(`{
		"VCPU": 4,
		"MEMORY_MB": "1000",
		"DISK_GB": {"total": 35},
		"PMEM": {"total": "16", "resource_provider_generation": 1}
	}`)

	out, err := ra.Canonical()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"VCPU":      4,
		"MEMORY_MB": 1000,
		"DISK_GB":   35,
		"PMEM":      16,
	}, out)
}

func TestCanonicalRejectsUnknownShape(t *testing.T) {
	_, err := amounts(`{"VCPU": [4]}`).Canonical()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequestFormat)
	assert.Contains(t, err.Error(), "VCPU")
	assert.Contains(t, err.Error(), "[4]")

	_, err = amounts(`{"DISK_GB": {"max": 10}}`).Canonical()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequestFormat)

	_, err = amounts(`{"MEMORY_MB": "lots"}`).Canonical()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequestFormat)
}

func TestPhysicalHostScalesByMinCount(t *testing.T) {
	r := Reservation{
		ResourceType:     "physical:host",
		Min:              3,
		ResourceRequests: amounts(`{"VCPU": 4}`),
	}

	demand, err := r.Demand()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"VCPU": 12}, demand)
}

func TestInstanceKindsPassAmountsThrough(t *testing.T) {
	for _, kind := range []string{"virtual:instance", "flavor:instance"} {
		r := Reservation{
			ResourceType:     kind,
			Min:              5,
			ResourceRequests: amounts(`{"MEMORY_MB": 2048}`),
		}

		demand, err := r.Demand()
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"MEMORY_MB": 2048}, demand, kind)
	}
}

func TestUnknownReservationKind(t *testing.T) {
	r := Reservation{ResourceType: "network:segment", ResourceRequests: amounts(`{"VLAN": 1}`)}
	_, err := r.Demand()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequestFormat)
	assert.Contains(t, err.Error(), "network:segment")
}

func TestDemandHoursOneDayLease(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	lease := Lease{
		StartDate: start,
		EndTime:   start.Add(24 * time.Hour),
		Reservations: []Reservation{{
			ResourceType:     "physical:host",
			Min:              1,
			ResourceRequests: amounts(`{"VCPU": 4, "MEMORY_MB": 1000, "DISK_GB": 35}`),
		}},
	}

	required, err := lease.DemandHours()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"VCPU":      96,
		"MEMORY_MB": 24000,
		"DISK_GB":   840,
	}, required)
}

func TestDemandHoursFractionalDurationRounds(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lease := Lease{
		StartDate: start,
		EndTime:   start.Add(90 * time.Minute),
		Reservations: []Reservation{{
			ResourceType:     "virtual:instance",
			ResourceRequests: amounts(`{"VCPU": 1}`),
		}},
	}

	required, err := lease.DemandHours()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"VCPU": 1.5}, required)
}

func TestDemandHoursSumsReservations(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lease := Lease{
		StartDate: start,
		EndTime:   start.Add(2 * time.Hour),
		Reservations: []Reservation{
			{ResourceType: "physical:host", Min: 2, ResourceRequests: amounts(`{"VCPU": 8}`)},
			{ResourceType: "virtual:instance", ResourceRequests: amounts(`{"VCPU": 4}`)},
		},
	}

	required, err := lease.DemandHours()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"VCPU": 40}, required)
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 1.5, RoundHours(1.46))
	assert.Equal(t, 1.4, RoundHours(1.44))
	assert.Equal(t, -2.3, RoundHours(-2.26))
	assert.Equal(t, 0.0, RoundHours(0.04))
}
