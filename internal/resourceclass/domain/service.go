package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (ResourceClass, error)
	List(ctx context.Context) ([]ResourceClass, error)
	GetByName(ctx context.Context, name string) (ResourceClass, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrDuplicate   = errors.New("duplicate_resource_class")
	ErrNotFound    = errors.New("resource_class_not_found")
)
