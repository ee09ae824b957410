package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackhpc/coral-credits/internal/quota"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, consumer *Consumer) error
	// FindByLeaseUUID returns nil when no consumer on the provider account
	// carries the lease uuid.
	FindByLeaseUUID(ctx context.Context, db *gorm.DB, providerAccountID snowflake.ID, leaseUUID uuid.UUID) (*Consumer, error)
	// Delete removes the consumer and its consumption records.
	Delete(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) error
	InsertRecord(ctx context.Context, db *gorm.DB, record *ResourceConsumptionRecord) error
	// ConsumptionByClass returns the consumer's committed hours keyed by
	// resource class name.
	ConsumptionByClass(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) (map[string]float64, error)
	// UsageInWindow returns consumption records for one class on one
	// provider account whose consumer window intersects [from, to].
	UsageInWindow(ctx context.Context, db *gorm.DB, providerAccountID snowflake.ID, resourceClass string, from, to time.Time) ([]quota.UsageRecord, error)
}
