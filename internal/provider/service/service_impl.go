package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stackhpc/coral-credits/internal/provider/domain"
	pkgdb "github.com/stackhpc/coral-credits/pkg/db"
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
		log:   p.Log.Named("provider.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateProvider(ctx context.Context, req domain.CreateProviderRequest) (domain.ResourceProvider, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ResourceProvider{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ResourceProvider{}, domain.ErrInvalidEmail
	}

	provider := domain.ResourceProvider{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		InfoURL:   strings.TrimSpace(req.InfoURL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertProvider(ctx, s.db, &provider); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.ResourceProvider{}, domain.ErrDuplicate
		}
		return domain.ResourceProvider{}, err
	}
	return provider, nil
}

func (s *Service) ListProviders(ctx context.Context) ([]domain.ResourceProvider, error) {
	return s.repo.ListProviders(ctx, s.db)
}

func (s *Service) CreateProviderAccount(ctx context.Context, req domain.CreateProviderAccountRequest) (domain.ResourceProviderAccount, error) {
	if req.AccountID == 0 || req.ProviderID == 0 || req.ProjectID == uuid.Nil {
		return domain.ResourceProviderAccount{}, domain.ErrInvalidReference
	}

	account := domain.ResourceProviderAccount{
		ID:         s.genID.Generate(),
		AccountID:  req.AccountID,
		ProviderID: req.ProviderID,
		ProjectID:  req.ProjectID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.InsertProviderAccount(ctx, s.db, &account); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.ResourceProviderAccount{}, domain.ErrDuplicate
		}
		return domain.ResourceProviderAccount{}, err
	}
	return account, nil
}

func (s *Service) ListProviderAccounts(ctx context.Context) ([]domain.ResourceProviderAccount, error) {
	return s.repo.ListProviderAccounts(ctx, s.db)
}

func (s *Service) ResolveByProject(ctx context.Context, projectID uuid.UUID) (domain.ResourceProviderAccount, error) {
	account, err := s.repo.FindByProject(ctx, s.db, projectID)
	if err != nil {
		return domain.ResourceProviderAccount{}, err
	}
	if account == nil {
		return domain.ResourceProviderAccount{}, domain.ErrNoMatchingAccount
	}
	return *account, nil
}
