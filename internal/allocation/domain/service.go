package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	AccountID snowflake.ID
	Name      string
	Start     time.Time
	End       time.Time
}

// AllocateRequest is an administrative top-up: additional resource-hours,
// additive to any existing balance, keyed by resource class name.
type AllocateRequest struct {
	AllocationID snowflake.ID
	Resources    map[string]float64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (CreditAllocation, error)
	List(ctx context.Context, accountID snowflake.ID) ([]CreditAllocation, error)
	Allocate(ctx context.Context, req AllocateRequest) ([]LedgerRow, error)
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidWindow        = errors.New("invalid_window")
	ErrInvalidReference     = errors.New("invalid_reference")
	ErrDuplicate            = errors.New("duplicate_allocation")
	ErrNoActiveAllocation   = errors.New("no_active_allocation")
	ErrUnknownResourceClass = errors.New("unknown_resource_class")
)
