package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResourceAmounts maps resource class names to raw amount payloads. External
// callers send amounts in several shapes: a bare number, a numeric string, or
// a structured inventory object carrying a "total". Parsing is deferred to
// Canonical so a bad value can be reported with its class and raw form.
type ResourceAmounts map[string]json.RawMessage

// Canonical parses every amount into plain per-unit quantities.
func (ra ResourceAmounts) Canonical() (map[string]float64, error) {
	out := make(map[string]float64, len(ra))
	for class, raw := range ra {
		value, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to recognise %s format %s", ErrInvalidRequestFormat, class, string(raw))
		}
		out[class] = value
	}
	return out, nil
}

func parseAmount(raw json.RawMessage) (float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, fmt.Errorf("empty amount")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case '{':
		var obj struct {
			Total json.RawMessage `json:"total"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0, err
		}
		if len(obj.Total) == 0 {
			return 0, fmt.Errorf("inventory object without total")
		}
		return parseAmount(obj.Total)
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, err
		}
		return f, nil
	}
}

// demandFunc turns a reservation's canonical per-unit amounts into the
// per-unit demand that reservation places on the ledger.
type demandFunc func(r Reservation, amounts map[string]float64) map[string]float64

// Reservation kinds form a closed registry keyed by resource_type. Host
// reservations claim whole hypervisors, so their amounts scale by the
// reserved host count; instance-shaped reservations already carry totals.
var reservationKinds = map[string]demandFunc{
	"physical:host":    demandPhysicalHost,
	"virtual:instance": demandPassthrough,
	"flavor:instance":  demandPassthrough,
}

func demandPhysicalHost(r Reservation, amounts map[string]float64) map[string]float64 {
	hosts := r.Min
	if hosts < 1 {
		hosts = 1
	}
	out := make(map[string]float64, len(amounts))
	for class, perUnit := range amounts {
		out[class] = perUnit * float64(hosts)
	}
	return out
}

func demandPassthrough(_ Reservation, amounts map[string]float64) map[string]float64 {
	return amounts
}

// Demand computes the per-unit resource demand of a single reservation.
func (r Reservation) Demand() (map[string]float64, error) {
	kind, ok := reservationKinds[r.ResourceType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown resource_type %q", ErrInvalidRequestFormat, r.ResourceType)
	}
	amounts, err := r.ResourceRequests.Canonical()
	if err != nil {
		return nil, err
	}
	return kind(r, amounts), nil
}

// DemandHours converts the lease into required resource-hours per class:
// the summed per-unit demand of every reservation, multiplied by the lease
// duration and rounded to one decimal.
func (l Lease) DemandHours() (map[string]float64, error) {
	duration := l.DurationHours()
	perUnit := make(map[string]float64)
	for _, r := range l.Reservations {
		demand, err := r.Demand()
		if err != nil {
			return nil, err
		}
		for class, amount := range demand {
			perUnit[class] += amount
		}
	}

	required := make(map[string]float64, len(perUnit))
	for class, amount := range perUnit {
		required[class] = RoundHours(amount * duration)
	}
	return required, nil
}

// RoundHours rounds resource-hours to one decimal place, the ledger's
// resolution.
func RoundHours(hours float64) float64 {
	return math.Round(hours*10) / 10
}
