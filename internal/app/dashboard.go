package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_dashboard/internal/adapters/observability"
	"hotel_dashboard/internal/domain"
)

// Clock supplies "now" for the upcoming-stays filter.
type Clock func() time.Time

type DashboardService struct {
	gw    domain.Gateway
	store domain.StateStore
	snaps domain.SnapshotRepository // optional
	now   Clock

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

func NewDashboardService(gw domain.Gateway, store domain.StateStore, snaps domain.SnapshotRepository, now Clock) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{gw: gw, store: store, snaps: snaps, now: now}
}

// Summarize derives the dashboard view-model from one cycle's collections.
// Previews are prefixes of the inputs in the order received.
func Summarize(bookings []domain.Booking, hotels []domain.Hotel, now time.Time) domain.DashboardSummary {
	upcoming := 0
	for _, b := range bookings {
		if b.IsUpcoming(now) {
			upcoming++
		}
	}
	return domain.DashboardSummary{
		TotalBookings:     len(bookings),
		UpcomingStays:     upcoming,
		FavoriteHotels:    len(hotels),
		ReviewsGiven:      0, // reviews are not tracked by the backend yet
		RecentBookings:    prefix(bookings, domain.RecentBookingsLimit),
		RecommendedHotels: prefix(hotels, domain.RecommendedHotelsLimit),
	}
}

func prefix[T any](in []T, n int) []T {
	if len(in) < n {
		n = len(in)
	}
	out := make([]T, n)
	copy(out, in[:n])
	return out
}

// Load runs one aggregation cycle: publish Loading, fetch bookings and hotels
// concurrently, then publish either Ready with the summary or Failed with the
// first error's message.
//
// A newer Load cancels this one. A superseded cycle publishes nothing further
// and returns domain.ErrSuperseded. A failed cycle returns its Failed state
// together with the fetch error. If the store rejects the final publish with
// an error, Load still tries to settle the slot as Failed before returning.
func (s *DashboardService) Load(ctx context.Context) (domain.DashboardState, error) {
	gen, err := s.store.NextGeneration(ctx)
	if err != nil {
		return domain.DashboardState{}, fmt.Errorf("next generation: %w", err)
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !s.claim(gen, cancel) {
		return domain.DashboardState{}, domain.ErrSuperseded
	}
	defer s.release(gen)

	cycleID := uuid.NewString()
	start := time.Now()
	lg := log.With().Str("cycle_id", cycleID).Uint64("generation", gen).Logger()

	loading := domain.DashboardState{
		Phase:      domain.PhaseLoading,
		IsLoading:  true,
		Generation: gen,
		CycleID:    cycleID,
		UpdatedAt:  s.now(),
	}
	if _, err := s.store.Publish(ctx, loading); err != nil {
		return domain.DashboardState{}, fmt.Errorf("publish loading state: %w", err)
	}

	var (
		bookings []domain.Booking
		hotels   []domain.Hotel
	)
	fetchErr := JoinAll(cycleCtx,
		func(ctx context.Context) error {
			var err error
			if bookings, err = s.gw.ListBookings(ctx); err != nil {
				return fmt.Errorf("list bookings: %w", err)
			}
			return nil
		},
		func(ctx context.Context) error {
			var err error
			if hotels, err = s.gw.ListHotels(ctx); err != nil {
				return fmt.Errorf("list hotels: %w", err)
			}
			return nil
		},
	)

	st := domain.DashboardState{Generation: gen, CycleID: cycleID}
	if fetchErr != nil {
		st.Phase = domain.PhaseFailed
		st.Error = fetchErr.Error()
	} else {
		sum := Summarize(bookings, hotels, s.now())
		st.Phase = domain.PhaseReady
		st.Summary = &sum
	}
	st.UpdatedAt = s.now()
	dur := time.Since(start)

	if s.superseded(gen) {
		observability.ObserveCycle("superseded", dur)
		lg.Info().Dur("duration", dur).Msg("dashboard cycle superseded")
		return st, domain.ErrSuperseded
	}
	stored, err := s.store.Publish(ctx, st)
	if err != nil {
		pubErr := fmt.Errorf("publish %s state: %w", st.Phase, err)
		observability.ObserveCycle(string(domain.PhaseFailed), dur)
		return s.settleFailed(ctx, st, pubErr, lg), pubErr
	}
	if !stored {
		observability.ObserveCycle("superseded", dur)
		lg.Info().Dur("duration", dur).Msg("dashboard cycle superseded")
		return st, domain.ErrSuperseded
	}

	observability.ObserveCycle(string(st.Phase), dur)
	s.recordSnapshot(ctx, st, dur)

	if fetchErr != nil {
		lg.Warn().Err(fetchErr).Dur("duration", dur).Msg("dashboard cycle failed")
		return st, fetchErr
	}
	lg.Info().
		Int("bookings", st.Summary.TotalBookings).
		Int("upcoming", st.Summary.UpcomingStays).
		Int("hotels", st.Summary.FavoriteHotels).
		Dur("duration", dur).
		Msg("dashboard cycle ready")
	return st, nil
}

// State returns the last published dashboard state.
func (s *DashboardService) State(ctx context.Context) (domain.DashboardState, error) {
	return s.store.Current(ctx)
}

// History returns the most recent settled cycles, newest first.
func (s *DashboardService) History(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if s.snaps == nil {
		return []domain.Snapshot{}, nil
	}
	return s.snaps.ListSnapshots(ctx, limit)
}

// RunEvery re-runs Load on a ticker until ctx is done.
func (s *DashboardService) RunEvery(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Load(ctx); err != nil && !errors.Is(err, domain.ErrSuperseded) {
				log.Warn().Err(err).Msg("scheduled dashboard refresh failed")
			}
		}
	}
}

// claim registers gen as the newest cycle and cancels whichever cycle it
// replaces. It reports false if a newer cycle already holds the slot.
func (s *DashboardService) claim(gen uint64, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.latest {
		return false
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.latest, s.cancel = gen, cancel
	return true
}

func (s *DashboardService) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == gen {
		s.cancel = nil
	}
}

func (s *DashboardService) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest != gen
}

// settleFailed makes one more attempt to replace this cycle's Loading state
// with Failed after the final publish errored, so readers never keep
// observing a cycle that has already ended.
func (s *DashboardService) settleFailed(ctx context.Context, st domain.DashboardState, cause error, lg zerolog.Logger) domain.DashboardState {
	failed := domain.DashboardState{
		Phase:      domain.PhaseFailed,
		Error:      cause.Error(),
		Generation: st.Generation,
		CycleID:    st.CycleID,
		UpdatedAt:  s.now(),
	}
	if _, err := s.store.Publish(context.WithoutCancel(ctx), failed); err != nil {
		lg.Error().Err(err).AnErr("cause", cause).Msg("publish failed state after store error")
		return failed
	}
	lg.Warn().Err(cause).Msg("dashboard cycle failed to publish its result")
	return failed
}

func (s *DashboardService) recordSnapshot(ctx context.Context, st domain.DashboardState, dur time.Duration) {
	if s.snaps == nil {
		return
	}
	snap := domain.Snapshot{
		CycleID:    st.CycleID,
		Generation: st.Generation,
		Phase:      st.Phase,
		DurationMS: dur.Milliseconds(),
		TakenAt:    st.UpdatedAt,
	}
	if st.Summary != nil {
		snap.TotalBookings = st.Summary.TotalBookings
		snap.UpcomingStays = st.Summary.UpcomingStays
		snap.FavoriteHotels = st.Summary.FavoriteHotels
		snap.ReviewsGiven = st.Summary.ReviewsGiven
	}
	if st.Error != "" {
		e := st.Error
		snap.Error = &e
	}
	if err := s.snaps.SaveSnapshot(ctx, snap); err != nil {
		log.Error().Err(err).Str("cycle_id", st.CycleID).Msg("save dashboard snapshot failed")
	}
}
