package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrReviewNotFound = errors.New("review not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const reviewColumns = `
		r.id,
		r.facility_id,
		r.user_id,
		u.name AS user_name,
		r.rating,
		r.comment,
		r.created_at`

func (r *repository) Create(ctx context.Context, facilityID, userID, rating int, comment string) (*Review, error) {
	query := `
		INSERT INTO reviews (facility_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, facility_id, user_id, rating, comment, created_at
	`

	var rev Review
	err := r.db.QueryRowxContext(ctx, query, facilityID, userID, rating, comment).StructScan(&rev)
	if err != nil {
		return nil, err
	}

	return &rev, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.id = $1
	`

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	return &rev, nil
}

func (r *repository) ListByFacility(ctx context.Context, facilityID int) ([]Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.facility_id = $1
		ORDER BY r.created_at DESC
	`

	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews, query, facilityID)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *repository) Stats(ctx context.Context, facilityID int) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count
		FROM reviews
		WHERE facility_id = $1
	`

	var row struct {
		AvgRating   float64 `db:"avg_rating"`
		ReviewCount int     `db:"review_count"`
	}
	err := r.db.GetContext(ctx, &row, query, facilityID)
	if err != nil {
		return 0, 0, err
	}

	return row.AvgRating, row.ReviewCount, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
