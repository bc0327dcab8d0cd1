package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hotel_dashboard/internal/domain"
)

const (
	stateKey      = "dashboard:state"
	generationKey = "dashboard:generation"
	maxTxRetries  = 5
)

// StateStore keeps the published dashboard state in Redis so every API
// replica serves the same slot. Generations come from INCR, so they are
// ordered across replicas too.
type StateStore struct{ c *redis.Client }

func NewStateStore(c *redis.Client) *StateStore { return &StateStore{c: c} }

func (s *StateStore) NextGeneration(ctx context.Context) (uint64, error) {
	n, err := s.c.Incr(ctx, generationKey).Uint64()
	if err != nil {
		return 0, fmt.Errorf("incr generation: %w", err)
	}
	return n, nil
}

// Publish writes st under WATCH so a concurrent writer with a newer
// generation is never overwritten.
func (s *StateStore) Publish(ctx context.Context, st domain.DashboardState) (bool, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return false, err
	}

	stored := false
	txf := func(tx *redis.Tx) error {
		cur, err := readState(ctx, tx)
		if err != nil {
			return err
		}
		if cur.Generation > st.Generation {
			stored = false
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, stateKey, b, 0)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.c.Watch(ctx, txf, stateKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue // someone else wrote in between; re-check generation
		}
		return stored, err
	}
	return false, fmt.Errorf("publish state: too much contention on %s", stateKey)
}

func (s *StateStore) Current(ctx context.Context) (domain.DashboardState, error) {
	return readState(ctx, s.c)
}

// getter is the slice of redis.Client / redis.Tx that readState needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readState(ctx context.Context, c getter) (domain.DashboardState, error) {
	b, err := c.Get(ctx, stateKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.IdleState(), nil
	}
	if err != nil {
		return domain.DashboardState{}, err
	}
	var st domain.DashboardState
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.DashboardState{}, fmt.Errorf("decode dashboard state: %w", err)
	}
	return st, nil
}
