package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertAllocation(ctx context.Context, db *gorm.DB, allocation *CreditAllocation) error
	ListForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]CreditAllocation, error)
	// FindActiveByID returns nil when the allocation is missing or its
	// window does not cover now.
	FindActiveByID(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (*CreditAllocation, error)
	// ActiveForAccount returns active allocations ordered by start ascending.
	ActiveForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, now time.Time) ([]CreditAllocation, error)
	// LedgerRows returns balance rows for the given allocations joined with
	// class names, ordered by allocation start ascending.
	LedgerRows(ctx context.Context, db *gorm.DB, allocationIDs []snowflake.ID) ([]LedgerRow, error)
	FindResource(ctx context.Context, db *gorm.DB, allocationID, resourceClassID snowflake.ID) (*CreditAllocationResource, error)
	InsertResource(ctx context.Context, db *gorm.DB, resource *CreditAllocationResource) error
	// AddToResource adds hours to the current balance, leaving the original
	// snapshot untouched.
	AddToResource(ctx context.Context, db *gorm.DB, rowID snowflake.ID, hours float64) error
	// Debit subtracts delta from the row balance, rounding to one decimal.
	// A negative delta credits the row.
	Debit(ctx context.Context, db *gorm.DB, rowID snowflake.ID, delta float64) error
	// NegativeRows re-reads the given rows and returns those with a balance
	// below zero. Used for the post-commit invariant check.
	NegativeRows(ctx context.Context, db *gorm.DB, rowIDs []snowflake.ID) ([]LedgerRow, error)
}
