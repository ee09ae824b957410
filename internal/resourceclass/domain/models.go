package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ResourceClass is a named unit of measure, e.g. "VCPU" or "MEMORY_MB".
// Immutable reference data.
type ResourceClass struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_resource_classes_name" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (ResourceClass) TableName() string { return "resource_classes" }
