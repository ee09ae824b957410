package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, class *ResourceClass) error
	FindByName(ctx context.Context, db *gorm.DB, name string) (*ResourceClass, error)
	List(ctx context.Context, db *gorm.DB) ([]ResourceClass, error)
}
