package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name  string
	Email string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (CreditAccount, error)
	List(ctx context.Context) ([]CreditAccount, error)
	// Summarize assembles the read-only reporting view for one account.
	Summarize(ctx context.Context, id snowflake.ID) (Summary, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrDuplicate    = errors.New("duplicate_account")
	ErrNotFound     = errors.New("account_not_found")
)
