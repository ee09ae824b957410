package account

import (
	"github.com/stackhpc/coral-credits/internal/account/repository"
	"github.com/stackhpc/coral-credits/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
