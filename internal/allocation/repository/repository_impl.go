package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stackhpc/coral-credits/internal/allocation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertAllocation(ctx context.Context, db *gorm.DB, allocation *domain.CreditAllocation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO credit_allocations (id, name, account_id, start, "end", created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		allocation.ID,
		allocation.Name,
		allocation.AccountID,
		allocation.Start,
		allocation.End,
		allocation.CreatedAt,
	).Error
}

func (r *repo) ListForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]domain.CreditAllocation, error) {
	var allocations []domain.CreditAllocation
	err := db.WithContext(ctx).
		Model(&domain.CreditAllocation{}).
		Where("account_id = ?", accountID).
		Order("start asc").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *repo) FindActiveByID(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (*domain.CreditAllocation, error) {
	var allocation domain.CreditAllocation
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, account_id, start, "end", created_at
		 FROM credit_allocations
		 WHERE id = ? AND start <= ? AND "end" >= ?`,
		id, now, now,
	).Scan(&allocation).Error
	if err != nil {
		return nil, err
	}
	if allocation.ID == 0 {
		return nil, nil
	}
	return &allocation, nil
}

func (r *repo) ActiveForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, now time.Time) ([]domain.CreditAllocation, error) {
	var allocations []domain.CreditAllocation
	err := db.WithContext(ctx).
		Model(&domain.CreditAllocation{}).
		Where("account_id = ? AND start <= ? AND \"end\" >= ?", accountID, now, now).
		Order("start asc").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *repo) LedgerRows(ctx context.Context, db *gorm.DB, allocationIDs []snowflake.ID) ([]domain.LedgerRow, error) {
	if len(allocationIDs) == 0 {
		return nil, nil
	}
	var rows []domain.LedgerRow
	err := db.WithContext(ctx).Raw(
		`SELECT car.id AS id,
		        car.allocation_id AS allocation_id,
		        car.resource_class_id AS resource_class_id,
		        rc.name AS resource_class,
		        car.resource_hours AS resource_hours,
		        car.original_resource_hours AS original_resource_hours,
		        ca.start AS allocation_start,
		        ca."end" AS allocation_end
		 FROM credit_allocation_resources car
		 JOIN credit_allocations ca ON ca.id = car.allocation_id
		 JOIN resource_classes rc ON rc.id = car.resource_class_id
		 WHERE car.allocation_id IN ?
		 ORDER BY ca.start ASC, car.id ASC`,
		allocationIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) FindResource(ctx context.Context, db *gorm.DB, allocationID, resourceClassID snowflake.ID) (*domain.CreditAllocationResource, error) {
	var resource domain.CreditAllocationResource
	err := db.WithContext(ctx).Raw(
		`SELECT id, allocation_id, resource_class_id, resource_hours, original_resource_hours, created_at
		 FROM credit_allocation_resources
		 WHERE allocation_id = ? AND resource_class_id = ?`,
		allocationID, resourceClassID,
	).Scan(&resource).Error
	if err != nil {
		return nil, err
	}
	if resource.ID == 0 {
		return nil, nil
	}
	return &resource, nil
}

func (r *repo) InsertResource(ctx context.Context, db *gorm.DB, resource *domain.CreditAllocationResource) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO credit_allocation_resources
		 (id, allocation_id, resource_class_id, resource_hours, original_resource_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		resource.ID,
		resource.AllocationID,
		resource.ResourceClassID,
		resource.ResourceHours,
		resource.OriginalResourceHours,
		resource.CreatedAt,
	).Error
}

func (r *repo) AddToResource(ctx context.Context, db *gorm.DB, rowID snowflake.ID, hours float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE credit_allocation_resources
		 SET resource_hours = ROUND(resource_hours + ?, 1)
		 WHERE id = ?`,
		hours, rowID,
	).Error
}

func (r *repo) Debit(ctx context.Context, db *gorm.DB, rowID snowflake.ID, delta float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE credit_allocation_resources
		 SET resource_hours = ROUND(resource_hours - ?, 1)
		 WHERE id = ?`,
		delta, rowID,
	).Error
}

func (r *repo) NegativeRows(ctx context.Context, db *gorm.DB, rowIDs []snowflake.ID) ([]domain.LedgerRow, error) {
	if len(rowIDs) == 0 {
		return nil, nil
	}
	var rows []domain.LedgerRow
	err := db.WithContext(ctx).Raw(
		`SELECT car.id AS id,
		        car.allocation_id AS allocation_id,
		        car.resource_class_id AS resource_class_id,
		        rc.name AS resource_class,
		        car.resource_hours AS resource_hours,
		        car.original_resource_hours AS original_resource_hours,
		        ca.start AS allocation_start,
		        ca."end" AS allocation_end
		 FROM credit_allocation_resources car
		 JOIN credit_allocations ca ON ca.id = car.allocation_id
		 JOIN resource_classes rc ON rc.id = car.resource_class_id
		 WHERE car.id IN ? AND car.resource_hours < 0`,
		rowIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
