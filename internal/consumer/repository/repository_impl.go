package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stackhpc/coral-credits/internal/consumer/domain"
	"github.com/stackhpc/coral-credits/internal/quota"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, consumer *domain.Consumer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO consumers
		   (id, lease_ref, lease_uuid, provider_account_id, user_ref, start, "end", detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		consumer.ID,
		consumer.LeaseRef,
		consumer.LeaseUUID,
		consumer.ProviderAccountID,
		consumer.UserRef,
		consumer.Start,
		consumer.End,
		consumer.Detail,
		consumer.CreatedAt,
	).Error
}

func (r *repo) FindByLeaseUUID(ctx context.Context, db *gorm.DB, providerAccountID snowflake.ID, leaseUUID uuid.UUID) (*domain.Consumer, error) {
	var consumer domain.Consumer
	err := db.WithContext(ctx).Raw(
		`SELECT id, lease_ref, lease_uuid, provider_account_id, user_ref, start, "end", detail, created_at
		 FROM consumers
		 WHERE provider_account_id = ? AND lease_uuid = ?`,
		providerAccountID,
		leaseUUID,
	).Scan(&consumer).Error
	if err != nil {
		return nil, err
	}
	if consumer.ID == 0 {
		return nil, nil
	}
	return &consumer, nil
}

// Delete removes the records first so the pair never outlives the consumer
// on engines without enforced cascades.
func (r *repo) Delete(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM resource_consumption_records WHERE consumer_id = ?`,
		consumerID,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM consumers WHERE id = ?`,
		consumerID,
	).Error
}

func (r *repo) InsertRecord(ctx context.Context, db *gorm.DB, record *domain.ResourceConsumptionRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resource_consumption_records
		   (id, consumer_id, resource_class_id, resource_hours, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.ConsumerID,
		record.ResourceClassID,
		record.ResourceHours,
		record.CreatedAt,
	).Error
}

func (r *repo) ConsumptionByClass(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) (map[string]float64, error) {
	var rows []struct {
		ResourceClass string
		ResourceHours float64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT rc.name AS resource_class, rcr.resource_hours AS resource_hours
		 FROM resource_consumption_records rcr
		 JOIN resource_classes rc ON rc.id = rcr.resource_class_id
		 WHERE rcr.consumer_id = ?`,
		consumerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	consumption := make(map[string]float64, len(rows))
	for _, row := range rows {
		consumption[row.ResourceClass] = row.ResourceHours
	}
	return consumption, nil
}

func (r *repo) UsageInWindow(ctx context.Context, db *gorm.DB, providerAccountID snowflake.ID, resourceClass string, from, to time.Time) ([]quota.UsageRecord, error) {
	var rows []struct {
		Start         time.Time
		End           time.Time
		ResourceHours float64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT c.start AS start, c."end" AS "end", rcr.resource_hours AS resource_hours
		 FROM resource_consumption_records rcr
		 JOIN consumers c ON c.id = rcr.consumer_id
		 JOIN resource_classes rc ON rc.id = rcr.resource_class_id
		 WHERE c.provider_account_id = ?
		   AND rc.name = ?
		   AND c.start <= ?
		   AND c."end" >= ?`,
		providerAccountID,
		resourceClass,
		to,
		from,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]quota.UsageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, quota.UsageRecord{
			Start:         row.Start,
			End:           row.End,
			ResourceHours: row.ResourceHours,
		})
	}
	return records, nil
}
