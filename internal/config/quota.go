package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// QuotaConfig is the raw quota enforcement configuration as read from
// coral.yml. Services consume immutable snapshots via QuotaConfigHolder.Get,
// never ambient globals.
type QuotaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	// Period is the calendar window the usage cap rolls over: "week" or "month".
	Period string `mapstructure:"period"`
	// UsageLimit is the cap expressed as a percentage of the allocation's
	// daily average, e.g. 50 means half the prorated allocation per period.
	UsageLimit float64 `mapstructure:"usage_limit"`
}

func DefaultQuotaConfig() QuotaConfig {
	return QuotaConfig{
		Enabled:    false,
		Period:     "month",
		UsageLimit: 100,
	}
}

// QuotaConfigHolder hot-reloads quota settings from coral.yml.
type QuotaConfigHolder struct {
	current atomic.Value // holds QuotaConfig
}

func NewQuotaConfigHolder() (*QuotaConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("coral")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/coral-credits")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CORAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQuotaConfig()
	v.SetDefault("quota.enabled", defaults.Enabled)
	v.SetDefault("quota.period", defaults.Period)
	v.SetDefault("quota.usage_limit", defaults.UsageLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg QuotaConfig
	if err := v.UnmarshalKey("quota", &cfg); err != nil {
		return nil, err
	}
	if err := validateQuotaConfig(cfg); err != nil {
		return nil, err
	}

	holder := &QuotaConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated QuotaConfig
		if err := v.UnmarshalKey("quota", &updated); err != nil {
			log.Printf("[quota-config] reload failed: %v", err)
			return
		}
		if err := validateQuotaConfig(updated); err != nil {
			log.Printf("[quota-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[quota-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticQuotaConfigHolder returns a holder pinned to cfg, for tests and
// embedding callers that manage configuration themselves.
func NewStaticQuotaConfigHolder(cfg QuotaConfig) *QuotaConfigHolder {
	holder := &QuotaConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *QuotaConfigHolder) Get() QuotaConfig {
	return h.current.Load().(QuotaConfig)
}

func validateQuotaConfig(cfg QuotaConfig) error {
	if !cfg.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Period)) {
	case "week", "month":
	default:
		return errors.New("quota.period must be 'week' or 'month'")
	}
	if cfg.UsageLimit <= 0 || cfg.UsageLimit > 100 {
		return errors.New("quota.usage_limit must be in (0, 100]")
	}
	return nil
}
