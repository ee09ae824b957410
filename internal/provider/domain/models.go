package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// ResourceProvider is a place resources are granted from. Operator-managed.
type ResourceProvider struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_resource_providers_name" json:"name"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	InfoURL   string       `gorm:"type:text" json:"info_url"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (ResourceProvider) TableName() string { return "resource_providers" }

// ResourceProviderAccount binds a credit account and a resource provider to
// exactly one external project. It is the join key every incoming admission
// request resolves through.
type ResourceProviderAccount struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID  snowflake.ID `gorm:"not null;uniqueIndex:ux_rpa_account_provider,priority:1" json:"account_id"`
	ProviderID snowflake.ID `gorm:"not null;uniqueIndex:ux_rpa_account_provider,priority:2;uniqueIndex:ux_rpa_provider_project,priority:1" json:"provider_id"`
	ProjectID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:ux_rpa_provider_project,priority:2" json:"project_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (ResourceProviderAccount) TableName() string { return "resource_provider_accounts" }
