package exporter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stackhpc/coral-credits/internal/clock"
)

var labels = []string{"project_id", "resource_class", "provider"}

var (
	totalHoursDesc = prometheus.NewDesc(
		"coral_credits_allocation_hours_per_project",
		"Total resource hours allocated per project (free plus reserved)",
		labels, nil,
	)
	freeHoursDesc = prometheus.NewDesc(
		"coral_credits_allocation_hours_free_per_project",
		"Remaining free resource hours per project",
		labels, nil,
	)
	reservedHoursDesc = prometheus.NewDesc(
		"coral_credits_allocation_hours_reserved_per_project",
		"Resource hours held by active reservations per project",
		labels, nil,
	)
	expiresInDesc = prometheus.NewDesc(
		"coral_credits_allocation_hours_expires_in_days_per_project",
		"Days until the credit allocation expires",
		labels, nil,
	)
	validSinceDesc = prometheus.NewDesc(
		"coral_credits_allocation_hours_valid_since_days_per_project",
		"Days since the credit allocation became valid",
		labels, nil,
	)
)

type seriesKey struct {
	projectID     string
	resourceClass string
	provider      string
}

type ledgerRow struct {
	ProjectID     string
	Provider      string
	ResourceClass string
	ResourceHours float64
	Start         time.Time
	End           time.Time
}

type reservedRow struct {
	ProjectID     string
	Provider      string
	ResourceClass string
	ResourceHours float64
}

// Collector aggregates the credit ledger on scrape. It only reads; the
// admission write path never touches it.
type Collector struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewCollector(db *gorm.DB, log *zap.Logger, clk clock.Clock) *Collector {
	return &Collector{db: db, log: log.Named("exporter"), clock: clk}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- totalHoursDesc
	ch <- freeHoursDesc
	ch <- reservedHoursDesc
	ch <- expiresInDesc
	ch <- validSinceDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	now := c.clock.Now()

	var ledger []ledgerRow
	err := c.db.Raw(
		`SELECT rpa.project_id AS project_id,
		        p.name AS provider,
		        rc.name AS resource_class,
		        car.resource_hours AS resource_hours,
		        ca.start AS start,
		        ca."end" AS "end"
		 FROM resource_provider_accounts rpa
		 JOIN resource_providers p ON p.id = rpa.provider_id
		 JOIN credit_allocations ca ON ca.account_id = rpa.account_id
		 JOIN credit_allocation_resources car ON car.allocation_id = ca.id
		 JOIN resource_classes rc ON rc.id = car.resource_class_id
		 ORDER BY ca.start ASC`,
	).Scan(&ledger).Error
	if err != nil {
		c.log.Error("ledger scrape failed", zap.Error(err))
		return
	}

	var reservations []reservedRow
	err = c.db.Raw(
		`SELECT rpa.project_id AS project_id,
		        p.name AS provider,
		        rc.name AS resource_class,
		        SUM(rcr.resource_hours) AS resource_hours
		 FROM consumers con
		 JOIN resource_provider_accounts rpa ON rpa.id = con.provider_account_id
		 JOIN resource_providers p ON p.id = rpa.provider_id
		 JOIN resource_consumption_records rcr ON rcr.consumer_id = con.id
		 JOIN resource_classes rc ON rc.id = rcr.resource_class_id
		 WHERE con.start <= ? AND con."end" >= ?
		 GROUP BY rpa.project_id, p.name, rc.name`,
		now, now,
	).Scan(&reservations).Error
	if err != nil {
		c.log.Error("reservation scrape failed", zap.Error(err))
		return
	}

	free := make(map[seriesKey]float64)
	windows := make(map[seriesKey][2]time.Time)
	for _, row := range ledger {
		key := seriesKey{row.ProjectID, row.ResourceClass, row.Provider}
		free[key] += row.ResourceHours
		// Rows arrive start-ascending; the earliest allocation defines the
		// window series, matching the admission ledger lookup.
		if _, ok := windows[key]; !ok {
			windows[key] = [2]time.Time{row.Start, row.End}
		}
	}

	reserved := make(map[seriesKey]float64)
	for _, row := range reservations {
		key := seriesKey{row.ProjectID, row.ResourceClass, row.Provider}
		reserved[key] += row.ResourceHours
	}

	total := make(map[seriesKey]float64, len(free))
	for key, hours := range free {
		total[key] += hours
	}
	for key, hours := range reserved {
		total[key] += hours
	}

	for key, hours := range total {
		ch <- prometheus.MustNewConstMetric(totalHoursDesc, prometheus.GaugeValue, hours,
			key.projectID, key.resourceClass, key.provider)
	}
	for key, hours := range free {
		ch <- prometheus.MustNewConstMetric(freeHoursDesc, prometheus.GaugeValue, hours,
			key.projectID, key.resourceClass, key.provider)
	}
	for key, hours := range reserved {
		ch <- prometheus.MustNewConstMetric(reservedHoursDesc, prometheus.GaugeValue, hours,
			key.projectID, key.resourceClass, key.provider)
	}
	for key, window := range windows {
		ch <- prometheus.MustNewConstMetric(expiresInDesc, prometheus.GaugeValue,
			window[1].Sub(now).Hours()/24,
			key.projectID, key.resourceClass, key.provider)
		ch <- prometheus.MustNewConstMetric(validSinceDesc, prometheus.GaugeValue,
			now.Sub(window[0]).Hours()/24,
			key.projectID, key.resourceClass, key.provider)
	}
}
