package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
)

func newChecker(cfg Config) *Checker {
	return NewChecker(func() Config { return cfg }, zap.NewNop())
}

func ledgerWith(class string, hours, original float64, start, end time.Time) map[string]*allocationdomain.LedgerRow {
	return map[string]*allocationdomain.LedgerRow{
		class: {
			ResourceClass:         class,
			ResourceHours:         hours,
			OriginalResourceHours: original,
			AllocationStart:       start,
			AllocationEnd:         end,
		},
	}
}

type stubUsage struct {
	records []UsageRecord
	err     error
}

func (s stubUsage) UsageInWindow(context.Context, string, time.Time, time.Time) ([]UsageRecord, error) {
	return s.records, s.err
}

func TestCheckBalanceMissingClass(t *testing.T) {
	c := newChecker(Config{})
	err := c.CheckBalance(map[string]float64{"VCPU": 10}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCreditForResourceClass)
	assert.Contains(t, err.Error(), "VCPU")
}

func TestCheckBalanceInsufficient(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	c := newChecker(Config{})

	err := c.CheckBalance(map[string]float64{"VCPU": 100.5}, ledgerWith("VCPU", 100.4, 200, start, end))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	assert.NoError(t, c.CheckBalance(map[string]float64{"VCPU": 100.4}, ledgerWith("VCPU", 100.4, 200, start, end)))
}

func TestCheckBalanceRefundAlwaysPasses(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := newChecker(Config{})
	err := c.CheckBalance(map[string]float64{"VCPU": -48}, ledgerWith("VCPU", 0, 96, start, start.AddDate(0, 0, 1)))
	assert.NoError(t, err)
}

func TestCheckQuotaDisabled(t *testing.T) {
	c := newChecker(Config{Enabled: false})
	err := c.CheckQuota(context.Background(), stubUsage{}, map[string]float64{"VCPU": 1e9}, nil, time.Now())
	assert.NoError(t, err)
}

func TestCheckQuotaWithinCap(t *testing.T) {
	// 30-day allocation of 720 original hours: daily average 24. A weekly
	// cap at 50% permits 84 hours.
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	ledger := ledgerWith("VCPU", 500, 720, start, end)
	c := newChecker(Config{Enabled: true, Period: PeriodWeek, UsageLimit: 50})

	err := c.CheckQuota(context.Background(), stubUsage{}, map[string]float64{"VCPU": 84}, ledger, now)
	assert.NoError(t, err)

	err = c.CheckQuota(context.Background(), stubUsage{}, map[string]float64{"VCPU": 84.1}, ledger, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCheckQuotaCountsProratedUsage(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	ledger := ledgerWith("VCPU", 500, 720, start, end)
	c := newChecker(Config{Enabled: true, Period: PeriodWeek, UsageLimit: 50})

	// 50 hours already consumed entirely inside the current week leaves 34
	// of the 84-hour cap.
	usage := stubUsage{records: []UsageRecord{{
		Start:         time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		ResourceHours: 50,
	}}}

	assert.NoError(t, c.CheckQuota(context.Background(), usage, map[string]float64{"VCPU": 34}, ledger, now))

	err := c.CheckQuota(context.Background(), usage, map[string]float64{"VCPU": 35}, ledger, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCheckQuotaIgnoresRefunds(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ledger := ledgerWith("VCPU", 0, 720, start, start.AddDate(0, 0, 29))
	c := newChecker(Config{Enabled: true, Period: PeriodWeek, UsageLimit: 1})

	err := c.CheckQuota(context.Background(), stubUsage{}, map[string]float64{"VCPU": -10}, ledger, now)
	assert.NoError(t, err)
}
