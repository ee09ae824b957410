package quota

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
)

var (
	ErrNoCreditForResourceClass = errors.New("no_credit_for_resource_class")
	ErrInsufficientCredits      = errors.New("insufficient_credits")
	ErrQuotaExceeded            = errors.New("quota_exceeded")
)

// Config is an immutable snapshot of the quota policy. UsageLimit is a
// percentage of the per-period average an account may consume in a single
// period.
type Config struct {
	Enabled    bool
	Period     Period
	UsageLimit float64
}

// UsageRecord is one committed consumption interval for a resource class.
type UsageRecord struct {
	Start         time.Time
	End           time.Time
	ResourceHours float64
}

// UsageSource yields the committed usage overlapping a window for one
// resource class, scoped to whatever account the caller bound it to.
type UsageSource interface {
	UsageInWindow(ctx context.Context, resourceClass string, from, to time.Time) ([]UsageRecord, error)
}

// Checker evaluates balance and periodic quota admission rules against a
// credit ledger. It holds no state of its own; the config func is consulted
// on every call so policy reloads take effect without restart.
type Checker struct {
	cfg func() Config
	log *zap.Logger
}

func NewChecker(cfg func() Config, log *zap.Logger) *Checker {
	return &Checker{cfg: cfg, log: log.Named("quota.checker")}
}

// CheckBalance verifies every required resource class has a ledger row with
// enough remaining hours to absorb the demand. required values may be
// negative (refunds), which always pass.
func (c *Checker) CheckBalance(required map[string]float64, ledger map[string]*allocationdomain.LedgerRow) error {
	for _, name := range sortedKeys(required) {
		row, ok := ledger[name]
		if !ok {
			return fmt.Errorf("%w: no credit allocated for resource class %s", ErrNoCreditForResourceClass, name)
		}
		remaining := row.ResourceHours - required[name]
		if remaining < 0 {
			return fmt.Errorf(
				"%w: %s requires %.1f hours but only %.1f available",
				ErrInsufficientCredits, name, required[name], row.ResourceHours,
			)
		}
	}
	return nil
}

// CheckQuota verifies the demand plus the account's prorated usage in the
// current period stays within the periodic cap for every required class. The
// cap is the allocation's daily average consumption rate, scaled to the
// period length and the configured usage limit fraction.
func (c *Checker) CheckQuota(
	ctx context.Context,
	usage UsageSource,
	required map[string]float64,
	ledger map[string]*allocationdomain.LedgerRow,
	now time.Time,
) error {
	cfg := c.cfg()
	if !cfg.Enabled {
		return nil
	}

	windowStart, windowEnd, periodDays := cfg.Period.Bounds(now)
	limitFraction := cfg.UsageLimit / 100

	for _, name := range sortedKeys(required) {
		if required[name] <= 0 {
			continue
		}
		row, ok := ledger[name]
		if !ok {
			return fmt.Errorf("%w: no credit allocated for resource class %s", ErrNoCreditForResourceClass, name)
		}
		allocationDays := row.AllocationDays()
		if allocationDays <= 0 {
			continue
		}

		dailyAvg := row.OriginalResourceHours / float64(allocationDays)
		periodCap := dailyAvg * float64(periodDays) * limitFraction

		records, err := usage.UsageInWindow(ctx, name, windowStart, windowEnd)
		if err != nil {
			return fmt.Errorf("quota usage lookup for %s: %w", name, err)
		}
		var used float64
		for _, rec := range records {
			used += OverlapHours(rec.Start, rec.End, windowStart, windowEnd, rec.ResourceHours)
		}

		if used+required[name] > periodCap {
			c.log.Debug("quota refusal",
				zap.String("resource_class", name),
				zap.Float64("used", used),
				zap.Float64("required", required[name]),
				zap.Float64("period_cap", periodCap),
			)
			return fmt.Errorf(
				"%w: %s would use %.1f of %.1f hours permitted this %s",
				ErrQuotaExceeded, name, used+required[name], periodCap, cfg.Period,
			)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
