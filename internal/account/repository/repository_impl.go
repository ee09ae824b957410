package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/stackhpc/coral-credits/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *domain.CreditAccount) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO credit_accounts (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		account.ID,
		account.Name,
		account.Email,
		account.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CreditAccount, error) {
	var account domain.CreditAccount
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, created_at FROM credit_accounts WHERE id = ?`,
		id,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.CreditAccount, error) {
	var accounts []domain.CreditAccount
	err := db.WithContext(ctx).
		Model(&domain.CreditAccount{}).
		Order("name asc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repo) AllocationResources(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]domain.AllocationResourceRow, error) {
	var rows []domain.AllocationResourceRow
	err := db.WithContext(ctx).Raw(
		`SELECT ca.id AS allocation_id,
		        ca.name AS allocation_name,
		        ca.start AS start,
		        ca."end" AS "end",
		        rc.name AS resource_class,
		        car.resource_hours AS resource_hours,
		        car.original_resource_hours AS original_hours
		 FROM credit_allocations ca
		 JOIN credit_allocation_resources car ON car.allocation_id = ca.id
		 JOIN resource_classes rc ON rc.id = car.resource_class_id
		 WHERE ca.account_id = ?
		 ORDER BY ca.start ASC, rc.name ASC`,
		accountID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ConsumerResources(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]domain.ConsumerResourceRow, error) {
	var rows []domain.ConsumerResourceRow
	err := db.WithContext(ctx).Raw(
		`SELECT c.id AS consumer_id,
		        c.lease_ref AS lease_ref,
		        c.start AS start,
		        c."end" AS "end",
		        rc.name AS resource_class,
		        rcr.resource_hours AS resource_hours
		 FROM consumers c
		 JOIN resource_provider_accounts rpa ON rpa.id = c.provider_account_id
		 JOIN resource_consumption_records rcr ON rcr.consumer_id = c.id
		 JOIN resource_classes rc ON rc.id = rcr.resource_class_id
		 WHERE rpa.account_id = ?
		 ORDER BY c.start ASC, rc.name ASC`,
		accountID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
