package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type CreateProviderRequest struct {
	Name    string
	Email   string
	InfoURL string
}

type CreateProviderAccountRequest struct {
	AccountID  snowflake.ID
	ProviderID snowflake.ID
	ProjectID  uuid.UUID
}

type Service interface {
	CreateProvider(ctx context.Context, req CreateProviderRequest) (ResourceProvider, error)
	ListProviders(ctx context.Context) ([]ResourceProvider, error)
	CreateProviderAccount(ctx context.Context, req CreateProviderAccountRequest) (ResourceProviderAccount, error)
	ListProviderAccounts(ctx context.Context) ([]ResourceProviderAccount, error)
	// ResolveByProject maps an external project id to its provider account.
	ResolveByProject(ctx context.Context, projectID uuid.UUID) (ResourceProviderAccount, error)
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidReference  = errors.New("invalid_reference")
	ErrDuplicate         = errors.New("duplicate_provider_account")
	ErrNoMatchingAccount = errors.New("no_matching_account")
)
