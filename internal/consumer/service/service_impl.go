package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	"github.com/stackhpc/coral-credits/internal/clock"
	"github.com/stackhpc/coral-credits/internal/consumer/domain"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	"github.com/stackhpc/coral-credits/internal/quota"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Repo           domain.Repository
	ProviderRepo   providerdomain.Repository
	AllocationRepo allocationdomain.Repository
	Checker        *quota.Checker
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	repo           domain.Repository
	providerRepo   providerdomain.Repository
	allocationRepo allocationdomain.Repository
	checker        *quota.Checker
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("consumer.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		repo:           p.Repo,
		providerRepo:   p.ProviderRepo,
		allocationRepo: p.AllocationRepo,
		checker:        p.Checker,
	}
}

// options selects the admission path variant. Every operation runs the same
// pipeline; update resolves prior state, release synthesizes the shortened
// window, dryRun stops before any write.
type options struct {
	update  bool
	release bool
	dryRun  bool
}

func (s *Service) Create(ctx context.Context, req domain.ConsumerRequest) error {
	return s.process(ctx, req, options{})
}

func (s *Service) Update(ctx context.Context, req domain.ConsumerRequest) error {
	return s.process(ctx, req, options{update: true})
}

func (s *Service) Delete(ctx context.Context, req domain.ConsumerRequest) error {
	return s.process(ctx, req, options{update: true, release: true})
}

func (s *Service) CheckCreate(ctx context.Context, req domain.ConsumerRequest) error {
	return s.process(ctx, req, options{dryRun: true})
}

func (s *Service) CheckUpdate(ctx context.Context, req domain.ConsumerRequest) error {
	return s.process(ctx, req, options{update: true, dryRun: true})
}

func (s *Service) process(ctx context.Context, req domain.ConsumerRequest, op options) error {
	if err := validate(req, op); err != nil {
		return err
	}
	now := s.clock.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.providerRepo.FindByProject(ctx, tx, req.Context.ProjectID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: project %s", providerdomain.ErrNoMatchingAccount, req.Context.ProjectID)
		}

		prior, err := s.repo.FindByLeaseUUID(ctx, tx, account.ID, req.Lease.LeaseID)
		if err != nil {
			return err
		}
		var priorHours map[string]float64
		if op.update {
			if prior == nil {
				return fmt.Errorf("%w: lease %s", domain.ErrNoMatchingPriorLease, req.Lease.LeaseID)
			}
			priorHours, err = s.repo.ConsumptionByClass(ctx, tx, prior.ID)
			if err != nil {
				return err
			}
		} else if prior != nil {
			return fmt.Errorf("%w: lease %s", domain.ErrDuplicateLease, req.Lease.LeaseID)
		}

		start, end := req.Lease.StartDate.UTC(), req.Lease.EndTime.UTC()
		if op.release {
			// A released lease keeps its history: the window is clamped to
			// what actually ran and the unconsumed remainder is refunded.
			start = prior.Start
			end = clampTime(now, prior.Start, prior.End)
		}

		required, err := s.requiredHours(req.Lease, start, end, prior, priorHours, op)
		if err != nil {
			return err
		}

		allocations, err := s.allocationRepo.ActiveForAccount(ctx, tx, account.AccountID, now)
		if err != nil {
			return err
		}
		if len(allocations) == 0 {
			return allocationdomain.ErrNoActiveAllocation
		}
		allocationIDs := make([]snowflake.ID, 0, len(allocations))
		for _, a := range allocations {
			allocationIDs = append(allocationIDs, a.ID)
		}
		rows, err := s.allocationRepo.LedgerRows(ctx, tx, allocationIDs)
		if err != nil {
			return err
		}
		ledger := allocationdomain.BuildLedger(rows)

		delta := make(map[string]float64, len(required))
		for class, hours := range required {
			delta[class] = domain.RoundHours(hours - priorHours[class])
		}

		if err := s.checker.CheckBalance(delta, ledger); err != nil {
			return err
		}
		usage := &usageSource{repo: s.repo, db: tx, providerAccountID: account.ID}
		if err := s.checker.CheckQuota(ctx, usage, delta, ledger, now); err != nil {
			return err
		}

		if op.dryRun {
			s.log.Debug("dry run admitted",
				zap.String("lease_uuid", req.Lease.LeaseID.String()),
				zap.Int("resource_classes", len(required)),
			)
			return nil
		}

		if prior != nil {
			if err := s.repo.Delete(ctx, tx, prior.ID); err != nil {
				return err
			}
		}

		consumer := domain.Consumer{
			ID:                s.genID.Generate(),
			LeaseRef:          req.Lease.LeaseName,
			LeaseUUID:         req.Lease.LeaseID,
			ProviderAccountID: account.ID,
			UserRef:           req.Context.UserID.String(),
			Start:             start,
			End:               end,
			Detail: datatypes.JSONMap{
				"auth_url":    req.Context.AuthURL,
				"region_name": req.Context.RegionName,
			},
			CreatedAt: time.Now().UTC(),
		}
		if op.release && prior != nil {
			consumer.LeaseRef = prior.LeaseRef
		}
		if err := s.repo.Insert(ctx, tx, &consumer); err != nil {
			return err
		}

		touched := make([]snowflake.ID, 0, len(required))
		for _, class := range sortedKeys(required) {
			row := ledger[class]
			record := domain.ResourceConsumptionRecord{
				ID:              s.genID.Generate(),
				ConsumerID:      consumer.ID,
				ResourceClassID: row.ResourceClassID,
				ResourceHours:   required[class],
				CreatedAt:       time.Now().UTC(),
			}
			if err := s.repo.InsertRecord(ctx, tx, &record); err != nil {
				return err
			}
			if delta[class] != 0 {
				if err := s.allocationRepo.Debit(ctx, tx, row.ID, delta[class]); err != nil {
					return err
				}
				touched = append(touched, row.ID)
			}
		}

		// Concurrent requests can both pass the balance check before either
		// debits. Re-reading the touched rows catches the overdraw and the
		// returned error rolls the whole transaction back.
		negatives, err := s.allocationRepo.NegativeRows(ctx, tx, touched)
		if err != nil {
			return err
		}
		if len(negatives) > 0 {
			return fmt.Errorf(
				"%w: insufficient %s credits after allocation",
				quota.ErrInsufficientCredits, negatives[0].ResourceClass,
			)
		}

		s.log.Info("admission committed",
			zap.String("lease_uuid", consumer.LeaseUUID.String()),
			zap.String("provider_account_id", account.ID.String()),
			zap.Bool("update", op.update),
			zap.Bool("release", op.release),
			zap.Int("resource_classes", len(required)),
		)
		return nil
	})
}

// requiredHours computes the absolute demand of the requested state. For
// releases the demand is the prior consumption prorated onto the clamped
// window; otherwise it comes from the lease's reservations, and a create must
// demand a strictly positive amount of every class it names.
func (s *Service) requiredHours(
	lease domain.Lease,
	start, end time.Time,
	prior *domain.Consumer,
	priorHours map[string]float64,
	op options,
) (map[string]float64, error) {
	if op.release {
		required := make(map[string]float64, len(priorHours))
		priorDuration := prior.DurationHours()
		newDuration := end.Sub(start).Hours()
		for class, hours := range priorHours {
			if priorDuration <= 0 {
				required[class] = 0
				continue
			}
			required[class] = domain.RoundHours(hours * newDuration / priorDuration)
		}
		return required, nil
	}

	required, err := lease.DemandHours()
	if err != nil {
		return nil, err
	}
	if len(required) == 0 {
		return nil, fmt.Errorf("%w: lease requests no resources", domain.ErrInvalidRequestFormat)
	}
	if !op.update {
		for _, class := range sortedKeys(required) {
			if required[class] <= 0 {
				return nil, fmt.Errorf(
					"%w: %s requires a positive amount, got %.1f",
					domain.ErrInvalidRequestFormat, class, required[class],
				)
			}
		}
	}
	return required, nil
}

func validate(req domain.ConsumerRequest, op options) error {
	if req.Context.ProjectID == uuid.Nil || req.Context.UserID == uuid.Nil {
		return fmt.Errorf("%w: context requires user_id and project_id", domain.ErrInvalidRequestFormat)
	}
	if req.Lease.LeaseID == uuid.Nil {
		return fmt.Errorf("%w: lease requires lease_id", domain.ErrInvalidRequestFormat)
	}
	if op.release {
		// The window and reservations come from the stored consumer.
		return nil
	}
	if req.Lease.StartDate.IsZero() || req.Lease.EndTime.IsZero() || !req.Lease.EndTime.After(req.Lease.StartDate) {
		return fmt.Errorf("%w: lease window must satisfy start_date < end_time", domain.ErrInvalidRequestFormat)
	}
	if len(req.Lease.Reservations) == 0 {
		return fmt.Errorf("%w: lease requires at least one reservation", domain.ErrInvalidRequestFormat)
	}
	return nil
}

// usageSource binds quota usage lookups to the transaction and provider
// account of the in-flight request.
type usageSource struct {
	repo              domain.Repository
	db                *gorm.DB
	providerAccountID snowflake.ID
}

func (u *usageSource) UsageInWindow(ctx context.Context, resourceClass string, from, to time.Time) ([]quota.UsageRecord, error) {
	return u.repo.UsageInWindow(ctx, u.db, u.providerAccountID, resourceClass, from, to)
}

func clampTime(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
