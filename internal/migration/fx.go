package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	"github.com/stackhpc/coral-credits/internal/config"
	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite is for local runs and tests; gorm derives the schema from
		// the models there.
		return AutoMigrate(conn)
	}),
)

func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&resourceclassdomain.ResourceClass{},
		&accountdomain.CreditAccount{},
		&providerdomain.ResourceProvider{},
		&providerdomain.ResourceProviderAccount{},
		&allocationdomain.CreditAllocation{},
		&allocationdomain.CreditAllocationResource{},
		&consumerdomain.Consumer{},
		&consumerdomain.ResourceConsumptionRecord{},
	)
}
