// Package memstate holds the dashboard state slot in process memory, for
// single-replica deployments and tests.
package memstate

import (
	"context"
	"sync"

	"hotel_dashboard/internal/domain"
)

type Store struct {
	mu  sync.RWMutex
	gen uint64
	st  domain.DashboardState
}

func New() *Store { return &Store{st: domain.IdleState()} }

func (s *Store) NextGeneration(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen, nil
}

func (s *Store) Publish(ctx context.Context, st domain.DashboardState) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Generation < s.st.Generation {
		return false, nil
	}
	s.st = st
	return true, nil
}

func (s *Store) Current(ctx context.Context) (domain.DashboardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st, nil
}
