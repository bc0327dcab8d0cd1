package domain

import "time"

const (
	RecentBookingsLimit    = 3
	RecommendedHotelsLimit = 4
)

type DashboardSummary struct {
	TotalBookings     int       `json:"totalBookings"`
	UpcomingStays     int       `json:"upcomingStays"`
	FavoriteHotels    int       `json:"favoriteHotels"`
	ReviewsGiven      int       `json:"reviewsGiven"`
	RecentBookings    []Booking `json:"recentBookings"`
	RecommendedHotels []Hotel   `json:"recommendedHotels"`
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// DashboardState is what the presentation layer observes. Summary is set only
// in PhaseReady and Error only in PhaseFailed.
type DashboardState struct {
	Phase      Phase             `json:"phase"`
	Summary    *DashboardSummary `json:"summary,omitempty"`
	IsLoading  bool              `json:"isLoading"`
	Error      string            `json:"error,omitempty"`
	Generation uint64            `json:"generation"`
	CycleID    string            `json:"cycleId,omitempty"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// IdleState is the state before the first cycle.
func IdleState() DashboardState { return DashboardState{Phase: PhaseIdle} }

// Snapshot is one settled aggregation cycle, as recorded in the cycle log.
type Snapshot struct {
	ID             int64
	CycleID        string
	Generation     uint64
	Phase          Phase
	TotalBookings  int
	UpcomingStays  int
	FavoriteHotels int
	ReviewsGiven   int
	Error          *string
	DurationMS     int64
	TakenAt        time.Time
}
