package consumer

import (
	"github.com/stackhpc/coral-credits/internal/consumer/repository"
	"github.com/stackhpc/coral-credits/internal/consumer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("consumer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
