package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_dashboard/internal/domain"
)

const hotelsListKey = "hotels:all"

// QueryService serves plain hotel and booking reads for the dashboard pages.
// Hotel reads are cache-aside; bookings are per-user and always fetched live.
type QueryService struct {
	backend  domain.BackendClient
	cache    domain.Cache
	cacheTTL time.Duration
	now      Clock
}

func NewQueryService(b domain.BackendClient, c domain.Cache, ttl time.Duration, now Clock) *QueryService {
	if now == nil {
		now = time.Now
	}
	return &QueryService{backend: b, cache: c, cacheTTL: ttl, now: now}
}

func (s *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	if s.cache != nil {
		var cached []domain.Hotel
		if s.cacheHit(ctx, hotelsListKey, &cached) {
			return cached, nil
		}
	}
	raw, err := s.backend.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	out := mapHotels(raw)

	// optional size guard
	if s.cache != nil {
		if b, _ := json.Marshal(out); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, hotelsListKey, out, int(s.cacheTTL.Seconds()))
		}
	}
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := fmt.Sprintf("hotel:%s", id)
	if s.cache != nil {
		var cached domain.Hotel
		if s.cacheHit(ctx, key, &cached) {
			return cached, nil
		}
	}
	raw, err := s.backend.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	h := mapHotel(raw)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListBookings returns the backend's bookings in their original order,
// narrowed by f.
func (s *QueryService) ListBookings(ctx context.Context, f domain.BookingsFilter) ([]domain.Booking, error) {
	raw, err := s.backend.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	all := mapBookings(raw)
	now := s.now()
	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.Upcoming && !b.IsUpcoming(now) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// cacheHit reports whether key decoded cleanly into dst. An entry that is
// present but undecodable counts as a miss and is refilled from the backend.
func (s *QueryService) cacheHit(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if ok && err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return ok && err == nil
}
