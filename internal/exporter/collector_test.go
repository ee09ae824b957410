package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	"github.com/stackhpc/coral-credits/internal/clock"
	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
	"github.com/stackhpc/coral-credits/internal/migration"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
)

func TestCollectorExportsLedgerGauges(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	project := uuid.MustParse("8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9")

	class := resourceclassdomain.ResourceClass{ID: node.Generate(), Name: "VCPU", CreatedAt: now}
	require.NoError(t, conn.Create(&class).Error)

	account := accountdomain.CreditAccount{ID: node.Generate(), Name: "science-team", Email: "pi@example.org", CreatedAt: now}
	require.NoError(t, conn.Create(&account).Error)

	provider := providerdomain.ResourceProvider{ID: node.Generate(), Name: "east-cloud", Email: "ops@example.org", CreatedAt: now}
	require.NoError(t, conn.Create(&provider).Error)

	providerAccount := providerdomain.ResourceProviderAccount{
		ID:         node.Generate(),
		AccountID:  account.ID,
		ProviderID: provider.ID,
		ProjectID:  project,
		CreatedAt:  now,
	}
	require.NoError(t, conn.Create(&providerAccount).Error)

	allocation := allocationdomain.CreditAllocation{
		ID:        node.Generate(),
		Name:      "2024-03",
		AccountID: account.ID,
		Start:     time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC),
		CreatedAt: now,
	}
	require.NoError(t, conn.Create(&allocation).Error)
	require.NoError(t, conn.Create(&allocationdomain.CreditAllocationResource{
		ID:                    node.Generate(),
		AllocationID:          allocation.ID,
		ResourceClassID:       class.ID,
		ResourceHours:         48,
		OriginalResourceHours: 96,
		CreatedAt:             now,
	}).Error)

	consumer := consumerdomain.Consumer{
		ID:                node.Generate(),
		LeaseRef:          "my-lease",
		LeaseUUID:         uuid.New(),
		ProviderAccountID: providerAccount.ID,
		UserRef:           uuid.New().String(),
		Start:             now.Add(-6 * time.Hour),
		End:               now.Add(6 * time.Hour),
		CreatedAt:         now,
	}
	require.NoError(t, conn.Create(&consumer).Error)
	require.NoError(t, conn.Create(&consumerdomain.ResourceConsumptionRecord{
		ID:              node.Generate(),
		ConsumerID:      consumer.ID,
		ResourceClassID: class.ID,
		ResourceHours:   48,
		CreatedAt:       now,
	}).Error)

	collector := NewCollector(conn, zap.NewNop(), clk)

	expected := `
# HELP coral_credits_allocation_hours_free_per_project Remaining free resource hours per project
# TYPE coral_credits_allocation_hours_free_per_project gauge
coral_credits_allocation_hours_free_per_project{project_id="8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",provider="east-cloud",resource_class="VCPU"} 48
# HELP coral_credits_allocation_hours_per_project Total resource hours allocated per project (free plus reserved)
# TYPE coral_credits_allocation_hours_per_project gauge
coral_credits_allocation_hours_per_project{project_id="8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",provider="east-cloud",resource_class="VCPU"} 96
# HELP coral_credits_allocation_hours_reserved_per_project Resource hours held by active reservations per project
# TYPE coral_credits_allocation_hours_reserved_per_project gauge
coral_credits_allocation_hours_reserved_per_project{project_id="8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",provider="east-cloud",resource_class="VCPU"} 48
# HELP coral_credits_allocation_hours_expires_in_days_per_project Days until the credit allocation expires
# TYPE coral_credits_allocation_hours_expires_in_days_per_project gauge
coral_credits_allocation_hours_expires_in_days_per_project{project_id="8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",provider="east-cloud",resource_class="VCPU"} 10
# HELP coral_credits_allocation_hours_valid_since_days_per_project Days since the credit allocation became valid
# TYPE coral_credits_allocation_hours_valid_since_days_per_project gauge
coral_credits_allocation_hours_valid_since_days_per_project{project_id="8e0adb3c-97f9-4dca-a4c9-a0b5a1b646f9",provider="east-cloud",resource_class="VCPU"} 10
`
	err = testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"coral_credits_allocation_hours_per_project",
		"coral_credits_allocation_hours_free_per_project",
		"coral_credits_allocation_hours_reserved_per_project",
		"coral_credits_allocation_hours_expires_in_days_per_project",
		"coral_credits_allocation_hours_valid_since_days_per_project",
	)
	assert.NoError(t, err)
}
