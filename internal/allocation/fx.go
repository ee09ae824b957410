package allocation

import (
	"github.com/stackhpc/coral-credits/internal/allocation/repository"
	"github.com/stackhpc/coral-credits/internal/allocation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("allocation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
