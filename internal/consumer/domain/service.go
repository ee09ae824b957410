package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidRequestFormat = errors.New("invalid_request_format")
	ErrDuplicateLease       = errors.New("duplicate_lease")
	ErrNoMatchingPriorLease = errors.New("no_matching_prior_lease")
)

// Service admits, revises, and releases reservations against the credit
// ledger. The Check variants run the full admission pipeline without
// committing anything.
type Service interface {
	Create(ctx context.Context, req ConsumerRequest) error
	Update(ctx context.Context, req ConsumerRequest) error
	Delete(ctx context.Context, req ConsumerRequest) error
	CheckCreate(ctx context.Context, req ConsumerRequest) error
	CheckUpdate(ctx context.Context, req ConsumerRequest) error
}
