package provider

import (
	"github.com/stackhpc/coral-credits/internal/provider/repository"
	"github.com/stackhpc/coral-credits/internal/provider/service"
	"go.uber.org/fx"
)

var Module = fx.Module("provider.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
