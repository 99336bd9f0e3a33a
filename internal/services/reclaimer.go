package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-reservation/config"
	"ticket-reservation/monitoring"
)

const reclaimerLeaseKey = "reclaimer:lease"

// Reclaimer periodically returns expired holds to the inventory pool. Every
// reclaim is a conditional delete coupled to its release, so racing against
// settlement (or another reclaimer instance) is safe: the loser of the race
// simply affects zero rows. The Redis lease only keeps multiple instances
// from duplicating work; it is not needed for correctness.
type Reclaimer struct {
	reservations ReservationRepo
	redis        *redis.Client
	notifier     Notifier
	interval     time.Duration
	batchSize    int
	now          func() time.Time
}

func NewReclaimer(reservations ReservationRepo, redisClient *redis.Client, notifier Notifier, cfg *config.Config) *Reclaimer {
	return &Reclaimer{
		reservations: reservations,
		redis:        redisClient,
		notifier:     notifier,
		interval:     cfg.ReclaimInterval,
		batchSize:    cfg.ReclaimBatchSize,
		now:          time.Now,
	}
}

// Start runs reclaim cycles until the context is cancelled.
func (r *Reclaimer) Start(ctx context.Context) {
	slog.Info("reclaimer started", "interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reclaimer stopped")
			return
		case <-ticker.C:
			r.runCycle(ctx)
		}
	}
}

func (r *Reclaimer) runCycle(ctx context.Context) {
	if !r.acquireLease(ctx) {
		return
	}

	start := time.Now()

	expired, err := r.reservations.FindExpired(ctx, r.now(), r.batchSize)
	if err != nil {
		// Transient storage errors are retried on the next tick; an expired
		// hold sitting around longer is a liveness concern only, settlement
		// re-checks liveness at its own clock.
		slog.Error("reclaimer: scanning expired holds failed", "error", err)
		return
	}

	reclaimed := 0
	for _, reservation := range expired {
		won, err := r.reservations.ReclaimExpired(ctx, reservation, r.now())
		if err != nil {
			slog.Error("reclaimer: reclaim failed",
				"reservation_id", reservation.ID,
				"ticket_type", reservation.TicketTypeID,
				"error", err,
			)
			continue
		}
		if !won {
			// Settlement claimed this hold between scan and delete.
			continue
		}

		reclaimed++
		monitoring.TrackReclaimed()
		r.notifier.ReservationExpired(reservation.Owner, reservation)
	}

	monitoring.ObserveReclaimCycle(time.Since(start))

	if reclaimed > 0 {
		slog.Info("reclaimer: returned expired holds to inventory",
			"scanned", len(expired),
			"reclaimed", reclaimed,
		)
	}
}

// acquireLease takes a short advisory lease so that in multi-instance
// deployments only one reclaimer does the scanning per interval.
func (r *Reclaimer) acquireLease(ctx context.Context) bool {
	if r.redis == nil {
		return true
	}

	ttl := r.interval - time.Second
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := r.redis.SetNX(ctx, reclaimerLeaseKey, r.now().Unix(), ttl).Result()
	if err != nil {
		slog.Warn("reclaimer: lease check failed, skipping cycle", "error", err)
		return false
	}
	return ok
}
