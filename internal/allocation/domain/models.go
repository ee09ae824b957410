package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CreditAllocation is a time-bounded grant of resource-hours to an account.
// Only allocations whose window covers "now" are usable for admission.
type CreditAllocation struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_credit_allocations_account_name,priority:2" json:"name"`
	AccountID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_credit_allocations_account_name,priority:1;uniqueIndex:ux_credit_allocations_account_start,priority:1" json:"account_id"`
	Start     time.Time    `gorm:"not null;uniqueIndex:ux_credit_allocations_account_start,priority:2" json:"start"`
	End       time.Time    `gorm:"not null" json:"end"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (CreditAllocation) TableName() string { return "credit_allocations" }

// Active reports whether the allocation window covers the given instant.
func (a CreditAllocation) Active(now time.Time) bool {
	return !a.Start.After(now) && !a.End.Before(now)
}

// DurationDays is the inclusive day count of the allocation window, used as
// the denominator for the quota daily average.
func (a CreditAllocation) DurationDays() int {
	return int(a.End.Sub(a.Start).Hours()/24) + 1
}

// CreditAllocationResource is the mutable ledger row: the current
// resource-hour balance for one (allocation, resource class) pair.
// OriginalResourceHours is snapshotted at first creation and never updated;
// quota proration is computed against it.
type CreditAllocationResource struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	AllocationID          snowflake.ID `gorm:"not null;uniqueIndex:ux_car_allocation_class,priority:1" json:"allocation_id"`
	ResourceClassID       snowflake.ID `gorm:"not null;uniqueIndex:ux_car_allocation_class,priority:2" json:"resource_class_id"`
	ResourceHours         float64      `gorm:"not null" json:"resource_hours"`
	OriginalResourceHours float64      `gorm:"not null" json:"original_resource_hours"`
	CreatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (CreditAllocationResource) TableName() string { return "credit_allocation_resources" }

// LedgerRow is a ledger balance joined with its resource class name and
// allocation window, the shape admission checks operate on.
type LedgerRow struct {
	ID                    snowflake.ID `json:"id"`
	AllocationID          snowflake.ID `json:"allocation_id"`
	ResourceClassID       snowflake.ID `json:"resource_class_id"`
	ResourceClass         string       `json:"resource_class"`
	ResourceHours         float64      `json:"resource_hours"`
	OriginalResourceHours float64      `json:"original_resource_hours"`
	AllocationStart       time.Time    `json:"allocation_start"`
	AllocationEnd         time.Time    `json:"allocation_end"`
}

// AllocationDays is the inclusive day count of the owning allocation window.
func (r LedgerRow) AllocationDays() int {
	return int(r.AllocationEnd.Sub(r.AllocationStart).Hours()/24) + 1
}

// BuildLedger folds rows into a per-class lookup. Rows must be ordered by
// allocation start ascending: when several active allocations carry the same
// resource class the earliest-starting allocation wins.
func BuildLedger(rows []LedgerRow) map[string]*LedgerRow {
	ledger := make(map[string]*LedgerRow, len(rows))
	for i := range rows {
		row := rows[i]
		if _, ok := ledger[row.ResourceClass]; ok {
			continue
		}
		ledger[row.ResourceClass] = &row
	}
	return ledger
}
