package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stackhpc/coral-credits/internal/account/domain"
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
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.CreditAccount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CreditAccount{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.CreditAccount{}, domain.ErrInvalidEmail
	}

	account := domain.CreditAccount{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &account); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.CreditAccount{}, domain.ErrDuplicate
		}
		return domain.CreditAccount{}, err
	}
	return account, nil
}

func (s *Service) List(ctx context.Context) ([]domain.CreditAccount, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Summarize(ctx context.Context, id snowflake.ID) (domain.Summary, error) {
	account, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Summary{}, err
	}
	if account == nil {
		return domain.Summary{}, domain.ErrNotFound
	}

	allocationRows, err := s.repo.AllocationResources(ctx, s.db, id)
	if err != nil {
		return domain.Summary{}, err
	}
	consumerRows, err := s.repo.ConsumerResources(ctx, s.db, id)
	if err != nil {
		return domain.Summary{}, err
	}

	reserved := map[string]float64{}
	for _, row := range consumerRows {
		reserved[row.ResourceClass] += row.ResourceHours
	}

	summary := domain.Summary{
		Account:     *account,
		Allocations: []domain.AllocationSummary{},
		Consumers:   []domain.ConsumerSummary{},
	}

	allocIndex := map[snowflake.ID]int{}
	for _, row := range allocationRows {
		idx, ok := allocIndex[row.AllocationID]
		if !ok {
			summary.Allocations = append(summary.Allocations, domain.AllocationSummary{
				ID:    row.AllocationID,
				Name:  row.AllocationName,
				Start: row.Start,
				End:   row.End,
			})
			idx = len(summary.Allocations) - 1
			allocIndex[row.AllocationID] = idx
		}
		summary.Allocations[idx].Resources = append(summary.Allocations[idx].Resources, domain.ResourceSummary{
			ResourceClass: row.ResourceClass,
			Allocated:     row.OriginalHours,
			Free:          row.ResourceHours,
			Reserved:      reserved[row.ResourceClass],
		})
	}

	consumerIndex := map[snowflake.ID]int{}
	for _, row := range consumerRows {
		idx, ok := consumerIndex[row.ConsumerID]
		if !ok {
			summary.Consumers = append(summary.Consumers, domain.ConsumerSummary{
				LeaseRef:  row.LeaseRef,
				Start:     row.Start,
				End:       row.End,
				Resources: map[string]float64{},
			})
			idx = len(summary.Consumers) - 1
			consumerIndex[row.ConsumerID] = idx
		}
		summary.Consumers[idx].Resources[row.ResourceClass] = row.ResourceHours
	}

	return summary, nil
}
