package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	InsertProvider(ctx context.Context, db *gorm.DB, provider *ResourceProvider) error
	ListProviders(ctx context.Context, db *gorm.DB) ([]ResourceProvider, error)
	InsertProviderAccount(ctx context.Context, db *gorm.DB, account *ResourceProviderAccount) error
	ListProviderAccounts(ctx context.Context, db *gorm.DB) ([]ResourceProviderAccount, error)
	FindByProject(ctx context.Context, db *gorm.DB, projectID uuid.UUID) (*ResourceProviderAccount, error)
}
