package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pkgdb "github.com/stackhpc/coral-credits/pkg/db"
	"github.com/stackhpc/coral-credits/internal/resourceclass/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("resourceclass.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.ResourceClass, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ResourceClass{}, domain.ErrInvalidName
	}

	class := domain.ResourceClass{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &class); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.ResourceClass{}, domain.ErrDuplicate
		}
		return domain.ResourceClass{}, err
	}
	return class, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ResourceClass, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.ResourceClass, error) {
	class, err := s.repo.FindByName(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return domain.ResourceClass{}, err
	}
	if class == nil {
		return domain.ResourceClass{}, domain.ErrNotFound
	}
	return *class, nil
}
