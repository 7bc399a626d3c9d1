package review

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func TestCreateReview(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews (facility_id, user_id, rating, comment)")).
		WithArgs(2, 5, 4, "Great courts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "facility_id", "user_id", "rating", "comment", "created_at"}).
			AddRow(10, 2, 5, 4, "Great courts", now))

	rev, err := repo.Create(context.Background(), 2, 5, 4, "Great courts")
	require.NoError(t, err)
	require.Equal(t, 10, rev.ID)
	require.Equal(t, 4, rev.Rating)
}

func TestStats(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(rating), 0)")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"avg_rating", "review_count"}).AddRow(4.5, 12))

	avg, count, err := repo.Stats(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 4.5, avg)
	require.Equal(t, 12, count)
}

func TestStatsEmptyFacility(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(rating), 0)")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"avg_rating", "review_count"}).AddRow(0.0, 0))

	avg, count, err := repo.Stats(context.Background(), 99)
	require.NoError(t, err)
	require.Zero(t, avg)
	require.Zero(t, count)
}

func TestDeleteReview(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 10))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 11), ErrReviewNotFound)
}
