package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pocketbase/pocketbase/core"
)

var (
	holdsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holds_created_total",
			Help: "Total successfully placed holds",
		},
	)

	holdsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holds_rejected_total",
			Help: "Total rejected hold requests",
		},
		[]string{"reason"},
	)

	reservationsReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_reclaimed_total",
			Help: "Total expired holds returned to inventory",
		},
	)

	settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Total settlement attempts by outcome",
		},
		[]string{"outcome"},
	)

	reclaimCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reclaim_cycle_duration_seconds",
			Help:    "Duration of expiry reclaim cycles",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	availableTickets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_available_total",
			Help: "Current available inventory per ticket type",
		},
		[]string{"ticket_type", "category"},
	)
)

func TrackHoldCreated() {
	holdsCreated.Inc()
}

func TrackHoldRejected(reason string) {
	holdsRejected.WithLabelValues(reason).Inc()
}

func TrackReclaimed() {
	reservationsReclaimed.Inc()
}

func TrackSettlement(outcome string) {
	settlements.WithLabelValues(outcome).Inc()
}

func ObserveReclaimCycle(d time.Duration) {
	reclaimCycleDuration.Observe(d.Seconds())
}

// Monitor samples the inventory ledger into the availability gauge.
type Monitor struct {
	app core.App
}

func NewMonitor(app core.App) *Monitor {
	return &Monitor{app: app}
}

// Collect samples inventory every 30 seconds until the context is cancelled.
func (m *Monitor) Collect(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectInventory(ctx)
		}
	}
}

func (m *Monitor) collectInventory(ctx context.Context) {
	rows := []struct {
		ID        string `db:"id"`
		Category  string `db:"category"`
		Available int    `db:"available"`
	}{}

	err := m.app.DB().NewQuery(
		"SELECT id, category, available FROM ticket_types",
	).WithContext(ctx).All(&rows)
	if err != nil {
		return
	}

	for _, row := range rows {
		availableTickets.WithLabelValues(row.ID, row.Category).Set(float64(row.Available))
	}
}
