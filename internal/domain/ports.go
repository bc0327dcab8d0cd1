package domain

import "context"

// BackendClient is the raw REST surface of the booking backend. Payloads are
// returned undecoded so the app layer can map the backend's varying shapes.
type BackendClient interface {
	ListBookings(ctx context.Context) ([]map[string]any, error)
	ListHotels(ctx context.Context) ([]map[string]any, error)
	GetHotel(ctx context.Context, id string) (map[string]any, error)
}

// Gateway returns typed records for one aggregation cycle.
type Gateway interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// StateStore holds the single published dashboard state slot.
type StateStore interface {
	// NextGeneration hands out a strictly increasing cycle generation.
	NextGeneration(ctx context.Context) (uint64, error)
	// Publish stores st unless a state with a higher generation is already
	// stored. It reports whether st was stored.
	Publish(ctx context.Context, st DashboardState) (bool, error)
	Current(ctx context.Context) (DashboardState, error)
}

type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
}
