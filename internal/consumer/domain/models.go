package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Consumer is one admitted reservation. It is replaced wholesale on update
// and never partially edited; its consumption records live and die with it.
type Consumer struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	LeaseRef          string            `gorm:"type:text;not null" json:"lease_ref"`
	LeaseUUID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_consumers_account_lease,priority:2" json:"lease_uuid"`
	ProviderAccountID snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_consumers_account_lease,priority:1" json:"provider_account_id"`
	UserRef           string            `gorm:"type:text;not null" json:"user_ref"`
	Start             time.Time         `gorm:"not null" json:"start"`
	End               time.Time         `gorm:"not null" json:"end"`
	Detail            datatypes.JSONMap `gorm:"type:json" json:"detail,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (Consumer) TableName() string { return "consumers" }

// DurationHours is the committed window length in fractional hours.
func (c Consumer) DurationHours() float64 {
	return c.End.Sub(c.Start).Hours()
}

// ResourceConsumptionRecord is the durable record of how many resource-hours
// one admitted reservation consumed from one resource class. Values are
// absolute, not deltas.
type ResourceConsumptionRecord struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	ConsumerID      snowflake.ID `gorm:"not null;uniqueIndex:ux_rcr_consumer_class,priority:1" json:"consumer_id"`
	ResourceClassID snowflake.ID `gorm:"not null;uniqueIndex:ux_rcr_consumer_class,priority:2" json:"resource_class_id"`
	ResourceHours   float64      `gorm:"not null" json:"resource_hours"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (ResourceConsumptionRecord) TableName() string { return "resource_consumption_records" }
