package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stackhpc/coral-credits/internal/allocation/domain"
	"github.com/stackhpc/coral-credits/internal/clock"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
	pkgdb "github.com/stackhpc/coral-credits/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	ClassRepo resourceclassdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	classRepo resourceclassdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("allocation.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		classRepo: p.ClassRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.CreditAllocation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CreditAllocation{}, domain.ErrInvalidName
	}
	if req.AccountID == 0 {
		return domain.CreditAllocation{}, domain.ErrInvalidReference
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.End.After(req.Start) {
		return domain.CreditAllocation{}, domain.ErrInvalidWindow
	}

	allocation := domain.CreditAllocation{
		ID:        s.genID.Generate(),
		Name:      name,
		AccountID: req.AccountID,
		Start:     req.Start.UTC(),
		End:       req.End.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertAllocation(ctx, s.db, &allocation); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.CreditAllocation{}, domain.ErrDuplicate
		}
		return domain.CreditAllocation{}, err
	}
	return allocation, nil
}

func (s *Service) List(ctx context.Context, accountID snowflake.ID) ([]domain.CreditAllocation, error) {
	return s.repo.ListForAccount(ctx, s.db, accountID)
}

// Allocate tops up the ledger rows of an active allocation. The first top-up
// for a resource class creates the row and snapshots original_resource_hours;
// later top-ups only raise the current balance.
func (s *Service) Allocate(ctx context.Context, req domain.AllocateRequest) ([]domain.LedgerRow, error) {
	if req.AllocationID == 0 {
		return nil, domain.ErrInvalidReference
	}
	if len(req.Resources) == 0 {
		return nil, domain.ErrInvalidReference
	}

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allocation, err := s.repo.FindActiveByID(ctx, tx, req.AllocationID, now)
		if err != nil {
			return err
		}
		if allocation == nil {
			return domain.ErrNoActiveAllocation
		}

		// Deterministic order keeps duplicate-key behavior stable.
		names := make([]string, 0, len(req.Resources))
		for name := range req.Resources {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			hours := req.Resources[name]
			class, err := s.classRepo.FindByName(ctx, tx, name)
			if err != nil {
				return err
			}
			if class == nil {
				return fmt.Errorf("%w: %s", domain.ErrUnknownResourceClass, name)
			}

			existing, err := s.repo.FindResource(ctx, tx, allocation.ID, class.ID)
			if err != nil {
				return err
			}
			if existing == nil {
				resource := domain.CreditAllocationResource{
					ID:                    s.genID.Generate(),
					AllocationID:          allocation.ID,
					ResourceClassID:       class.ID,
					ResourceHours:         hours,
					OriginalResourceHours: hours,
					CreatedAt:             time.Now().UTC(),
				}
				if err := s.repo.InsertResource(ctx, tx, &resource); err != nil {
					return err
				}
				continue
			}
			if err := s.repo.AddToResource(ctx, tx, existing.ID, hours); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.LedgerRows(ctx, s.db, []snowflake.ID{req.AllocationID})
	if err != nil {
		return nil, err
	}
	s.log.Info("credit allocated",
		zap.String("allocation_id", req.AllocationID.String()),
		zap.Int("resource_classes", len(req.Resources)),
	)
	return rows, nil
}
