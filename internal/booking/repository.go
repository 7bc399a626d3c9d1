package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	// Postgres error codes recognized by the write path.
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, reference, facility_id, court_id, sport_name, user_id,
	date, start_hour, duration, total_price, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialize concurrent writers on the same court. The exclusion
	// constraint on bookings is the hard guarantee; the row lock keeps the
	// conflict check and the insert atomic so losers get a ConflictError
	// with the winning bookings instead of a raw constraint violation.
	var courtID int
	err = tx.GetContext(ctx, &courtID, `SELECT id FROM courts WHERE id = $1 FOR UPDATE`, b.CourtID)
	if err != nil {
		return nil, err
	}

	conflictQuery := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1
		  AND date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_hour < $3
		  AND start_hour + duration > $4
		ORDER BY start_hour ASC
	`

	var conflicts []Booking
	err = tx.SelectContext(ctx, &conflicts, conflictQuery,
		b.CourtID, b.Date.Format(DateFormat), b.EndHour(), b.StartHour)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicting: conflicts}
	}

	insertQuery := `
		INSERT INTO bookings (reference, facility_id, court_id, sport_name, user_id, date, start_hour, duration, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bookingColumns

	var created Booking
	err = tx.QueryRowxContext(ctx, insertQuery,
		b.Reference, b.FacilityID, b.CourtID, b.SportName, b.UserID,
		b.Date.Format(DateFormat), b.StartHour, b.Duration, b.TotalPrice, b.Status,
	).StructScan(&created)
	if err != nil {
		return nil, mapConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapConflict(err)
	}

	return &created, nil
}

// mapConflict turns an exclusion constraint violation into a ConflictError.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
		return &ConflictError{}
	}
	return err
}

// IsRetryable reports whether the error is a transient serialization or
// deadlock failure worth retrying.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pqSerializationFailure || code == pqDeadlockDetected
	}
	return false
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListForCourtDate(ctx context.Context, courtID int, date time.Time, blockingOnly bool) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1 AND date = $2
	`
	if blockingOnly {
		query += ` AND status IN ('pending', 'confirmed')`
	}
	query += ` ORDER BY start_hour ASC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, courtID, date.Format(DateFormat))
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

const detailColumns = `
		b.id,
		b.reference,
		b.facility_id,
		b.court_id,
		b.sport_name,
		b.user_id,
		b.date,
		b.start_hour,
		b.duration,
		b.total_price,
		b.status,
		b.created_at,
		b.updated_at,
		c.name AS court_name,
		f.name AS facility_name,
		u.name AS user_name,
		u.email AS user_email`

func (r *repository) ListByUser(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN courts c ON b.court_id = c.id
		JOIN facilities f ON b.facility_id = f.id
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.date DESC, b.start_hour DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListByFacility(ctx context.Context, facilityID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN courts c ON b.court_id = c.id
		JOIN facilities f ON b.facility_id = f.id
		JOIN users u ON b.user_id = u.id
		WHERE b.facility_id = $1
		ORDER BY b.date DESC, b.start_hour DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, facilityID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
