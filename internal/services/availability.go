package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-reservation/models"
)

// TicketTypeLister is the catalog read the availability cache sits in front of.
type TicketTypeLister interface {
	TicketTypesForEvent(ctx context.Context, eventID string) ([]models.TicketType, error)
}

// AvailabilityService serves per-event ticket type listings through a
// short-TTL Redis cache, keeping the hot catalog read off the ledger table
// during on-sale spikes. Slightly stale counts are fine here; holds are the
// only authoritative admission check.
type AvailabilityService struct {
	redis *redis.Client
	store TicketTypeLister
	ttl   time.Duration
}

func NewAvailabilityService(redisClient *redis.Client, store TicketTypeLister, ttl time.Duration) *AvailabilityService {
	return &AvailabilityService{
		redis: redisClient,
		store: store,
		ttl:   ttl,
	}
}

func availabilityKey(eventID string) string {
	return fmt.Sprintf("availability:event:%s", eventID)
}

func (s *AvailabilityService) ForEvent(ctx context.Context, eventID string) ([]models.TicketType, error) {
	key := availabilityKey(eventID)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Result(); err == nil {
			var cached []models.TicketType
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			slog.Warn("availability cache read failed", "event_id", eventID, "error", err)
		}
	}

	ticketTypes, err := s.store.TicketTypesForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(ticketTypes); err == nil {
			if err := s.redis.Set(ctx, key, string(data), s.ttl).Err(); err != nil {
				slog.Warn("availability cache write failed", "event_id", eventID, "error", err)
			}
		}
	}

	return ticketTypes, nil
}
