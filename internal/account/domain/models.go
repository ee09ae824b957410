package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CreditAccount is the billing entity credit allocations are granted to.
type CreditAccount struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_credit_accounts_name" json:"name"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (CreditAccount) TableName() string { return "credit_accounts" }

// Summary is the reporting view of an account: its allocations with
// per-class balances and its admitted reservations.
type Summary struct {
	Account     CreditAccount       `json:"account"`
	Allocations []AllocationSummary `json:"allocations"`
	Consumers   []ConsumerSummary   `json:"consumers"`
}

type AllocationSummary struct {
	ID        snowflake.ID      `json:"id"`
	Name      string            `json:"name"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Resources []ResourceSummary `json:"resources"`
}

// ResourceSummary reports one ledger row: the hours originally granted, the
// hours still free, and the hours currently held by reservations.
type ResourceSummary struct {
	ResourceClass string  `json:"resource_class"`
	Allocated     float64 `json:"resource_hours_allocated"`
	Free          float64 `json:"resource_hours_remaining"`
	Reserved      float64 `json:"resource_hours_reserved"`
}

type ConsumerSummary struct {
	LeaseRef  string             `json:"consumer_ref"`
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Resources map[string]float64 `json:"resources"`
}
