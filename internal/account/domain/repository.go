package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// AllocationResourceRow is the flattened join used to assemble summaries.
type AllocationResourceRow struct {
	AllocationID   snowflake.ID
	AllocationName string
	Start          time.Time
	End            time.Time
	ResourceClass  string
	ResourceHours  float64
	OriginalHours  float64
}

// ConsumerResourceRow is one consumption record joined with its consumer.
type ConsumerResourceRow struct {
	ConsumerID    snowflake.ID
	LeaseRef      string
	Start         time.Time
	End           time.Time
	ResourceClass string
	ResourceHours float64
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *CreditAccount) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CreditAccount, error)
	List(ctx context.Context, db *gorm.DB) ([]CreditAccount, error)
	AllocationResources(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]AllocationResourceRow, error)
	ConsumerResources(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]ConsumerResourceRow, error)
}
