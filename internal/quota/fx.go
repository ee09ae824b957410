package quota

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/stackhpc/coral-credits/internal/config"
)

var Module = fx.Module("quota",
	fx.Provide(provideChecker),
)

func provideChecker(holder *config.QuotaConfigHolder, log *zap.Logger) *Checker {
	return NewChecker(func() Config {
		raw := holder.Get()
		period, err := ParsePeriod(raw.Period)
		if err != nil {
			period = PeriodMonth
		}
		return Config{
			Enabled:    raw.Enabled,
			Period:     period,
			UsageLimit: raw.UsageLimit,
		}
	}, log)
}
