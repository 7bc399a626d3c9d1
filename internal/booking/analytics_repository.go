package booking

import (
	"context"
	"time"
)

type StatsByDay struct {
	Bucket            string `db:"bucket" json:"bucket"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsConfirmed int    `db:"bookings_confirmed" json:"bookings_confirmed"`
	BookingsRejected  int    `db:"bookings_rejected" json:"bookings_rejected"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

type StatsByFacility struct {
	FacilityID        int    `db:"facility_id" json:"facility_id"`
	FacilityName      string `db:"facility_name" json:"facility_name"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsConfirmed int    `db:"bookings_confirmed" json:"bookings_confirmed"`
	BookingsRejected  int    `db:"bookings_rejected" json:"bookings_rejected"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
}

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	query := `
SELECT
  DATE(created_at)::text AS bucket,
  COUNT(*) AS bookings_created,
  COUNT(*) FILTER (WHERE status = 'confirmed') AS bookings_confirmed,
  COUNT(*) FILTER (WHERE status = 'rejected')  AS bookings_rejected,
  COUNT(*) FILTER (WHERE status = 'cancelled') AS bookings_cancelled
FROM bookings
WHERE created_at BETWEEN $1 AND $2
GROUP BY DATE(created_at)
ORDER BY bucket
`
	var stats []StatsByDay
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) StatsByFacility(ctx context.Context, from, to time.Time) ([]StatsByFacility, error) {
	query := `
SELECT
  f.id   AS facility_id,
  f.name AS facility_name,
  COUNT(b.*) AS bookings_created,
  COUNT(b.*) FILTER (WHERE b.status = 'confirmed') AS bookings_confirmed,
  COUNT(b.*) FILTER (WHERE b.status = 'rejected')  AS bookings_rejected,
  COUNT(b.*) FILTER (WHERE b.status = 'cancelled') AS bookings_cancelled
FROM facilities f
JOIN bookings b ON b.facility_id = f.id
WHERE b.created_at BETWEEN $1 AND $2
GROUP BY f.id, f.name
ORDER BY f.id
`
	var stats []StatsByFacility
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}
