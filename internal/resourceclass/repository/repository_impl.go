package repository

import (
	"context"

	"github.com/stackhpc/coral-credits/internal/resourceclass/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, class *domain.ResourceClass) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resource_classes (id, name, created_at) VALUES (?, ?, ?)`,
		class.ID,
		class.Name,
		class.CreatedAt,
	).Error
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.ResourceClass, error) {
	var class domain.ResourceClass
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at FROM resource_classes WHERE name = ?`,
		name,
	).Scan(&class).Error
	if err != nil {
		return nil, err
	}
	if class.ID == 0 {
		return nil, nil
	}
	return &class, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.ResourceClass, error) {
	var classes []domain.ResourceClass
	err := db.WithContext(ctx).
		Model(&domain.ResourceClass{}).
		Order("name asc").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}
