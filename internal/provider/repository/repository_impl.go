package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stackhpc/coral-credits/internal/provider/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertProvider(ctx context.Context, db *gorm.DB, provider *domain.ResourceProvider) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resource_providers (id, name, email, info_url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		provider.ID,
		provider.Name,
		provider.Email,
		provider.InfoURL,
		provider.CreatedAt,
	).Error
}

func (r *repo) ListProviders(ctx context.Context, db *gorm.DB) ([]domain.ResourceProvider, error) {
	var providers []domain.ResourceProvider
	err := db.WithContext(ctx).
		Model(&domain.ResourceProvider{}).
		Order("name asc").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *repo) InsertProviderAccount(ctx context.Context, db *gorm.DB, account *domain.ResourceProviderAccount) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resource_provider_accounts (id, account_id, provider_id, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		account.ID,
		account.AccountID,
		account.ProviderID,
		account.ProjectID,
		account.CreatedAt,
	).Error
}

func (r *repo) ListProviderAccounts(ctx context.Context, db *gorm.DB) ([]domain.ResourceProviderAccount, error) {
	var accounts []domain.ResourceProviderAccount
	err := db.WithContext(ctx).
		Model(&domain.ResourceProviderAccount{}).
		Order("id asc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repo) FindByProject(ctx context.Context, db *gorm.DB, projectID uuid.UUID) (*domain.ResourceProviderAccount, error) {
	var account domain.ResourceProviderAccount
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, provider_id, project_id, created_at
		 FROM resource_provider_accounts WHERE project_id = ?`,
		projectID,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}
