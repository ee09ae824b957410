package resourceclass

import (
	"github.com/stackhpc/coral-credits/internal/resourceclass/repository"
	"github.com/stackhpc/coral-credits/internal/resourceclass/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resourceclass.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
