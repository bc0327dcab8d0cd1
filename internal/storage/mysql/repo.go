package mysql

import (
	"context"
	"database/sql"

	"hotel_dashboard/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo is the aggregation-cycle log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		s.CycleID,
		s.Generation,
		string(s.Phase),
		s.TotalBookings,
		s.UpcomingStays,
		s.FavoriteHotels,
		s.ReviewsGiven,
		valStr(s.Error),
		s.DurationMS,
		s.TakenAt.UTC(),
	)
	return err
}

func (r *Repo) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Snapshot{}
	for rows.Next() {
		var (
			s     domain.Snapshot
			phase string
			msg   sql.NullString
		)
		if err := rows.Scan(
			&s.ID,
			&s.CycleID,
			&s.Generation,
			&phase,
			&s.TotalBookings,
			&s.UpcomingStays,
			&s.FavoriteHotels,
			&s.ReviewsGiven,
			&msg,
			&s.DurationMS,
			&s.TakenAt,
		); err != nil {
			return nil, err
		}
		s.Phase = domain.Phase(phase)
		if msg.Valid {
			m := msg.String
			s.Error = &m
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
