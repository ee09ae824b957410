package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("exporter",
	fx.Provide(NewCollector),
	fx.Invoke(register),
)

func register(collector *Collector) error {
	return prometheus.Register(collector)
}
