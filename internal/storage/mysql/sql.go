package mysql

const insertSnapshotSQL = `
INSERT INTO dashboard_snapshots
  (cycle_id, generation, phase, total_bookings, upcoming_stays, favorite_hotels,
   reviews_given, error, duration_ms, taken_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  phase      = VALUES(phase),
  error      = VALUES(error),
  duration_ms = VALUES(duration_ms)
`

// Newest first; matches the (taken_at, id) index.
const listSnapshotsSQL = `
SELECT
  id,
  cycle_id,
  generation,
  phase,
  total_bookings,
  upcoming_stays,
  favorite_hotels,
  reviews_given,
  error,
  duration_ms,
  taken_at
FROM dashboard_snapshots
ORDER BY taken_at DESC, id DESC
LIMIT ?
`
