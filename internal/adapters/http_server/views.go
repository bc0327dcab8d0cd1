package httpserver

import (
	"time"

	"hotel_dashboard/internal/domain"
)

type snapshotView struct {
	CycleID        string    `json:"cycleId"`
	Generation     uint64    `json:"generation"`
	Phase          string    `json:"phase"`
	TotalBookings  int       `json:"totalBookings"`
	UpcomingStays  int       `json:"upcomingStays"`
	FavoriteHotels int       `json:"favoriteHotels"`
	ReviewsGiven   int       `json:"reviewsGiven"`
	Error          *string   `json:"error,omitempty"`
	DurationMS     int64     `json:"durationMs"`
	TakenAt        time.Time `json:"takenAt"`
}

func toSnapshotViews(in []domain.Snapshot) []snapshotView {
	out := make([]snapshotView, 0, len(in))
	for _, s := range in {
		out = append(out, snapshotView{
			CycleID:        s.CycleID,
			Generation:     s.Generation,
			Phase:          string(s.Phase),
			TotalBookings:  s.TotalBookings,
			UpcomingStays:  s.UpcomingStays,
			FavoriteHotels: s.FavoriteHotels,
			ReviewsGiven:   s.ReviewsGiven,
			Error:          s.Error,
			DurationMS:     s.DurationMS,
			TakenAt:        s.TakenAt,
		})
	}
	return out
}
