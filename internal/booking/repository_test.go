package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reference", "facility_id", "court_id", "sport_name", "user_id",
		"date", "start_hour", "duration", "total_price", "status", "created_at", "updated_at",
	})
}

func testDate(t *testing.T) time.Time {
	d, err := time.Parse(DateFormat, "2024-06-01")
	require.NoError(t, err)
	return d
}

func TestCreateBookingLocksCourtAndInserts(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	date := testDate(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM courts WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("AND status IN \\('pending', 'confirmed'\\)").
		WithArgs(7, "2024-06-01", 13, 10).
		WillReturnRows(bookingRows())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("ref-1", 2, 7, "Badminton", 5, "2024-06-01", 10, 3, int64(1500), StatusPending).
		WillReturnRows(bookingRows().AddRow(
			42, "ref-1", 2, 7, "Badminton", 5, date, 10, 3, 1500, "pending", now, now,
		))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), &Booking{
		Reference:  "ref-1",
		FacilityID: 2,
		CourtID:    7,
		SportName:  "Badminton",
		UserID:     5,
		Date:       date,
		StartHour:  10,
		Duration:   3,
		TotalPrice: 1500,
		Status:     StatusPending,
	})

	require.NoError(t, err)
	require.Equal(t, 42, created.ID)
	require.Equal(t, StatusPending, created.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingConflictRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	date := testDate(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM courts WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("AND status IN \\('pending', 'confirmed'\\)").
		WithArgs(7, "2024-06-01", 12, 10).
		WillReturnRows(bookingRows().AddRow(
			40, "ref-0", 2, 7, "Badminton", 6, date, 9, 3, 1500, "confirmed", now, now,
		))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &Booking{
		Reference: "ref-1",
		CourtID:   7,
		Date:      date,
		StartHour: 10,
		Duration:  2,
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicting, 1)
	require.Equal(t, 40, conflictErr.Conflicting[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingMapsExclusionViolation(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := testDate(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM courts WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("AND status IN \\('pending', 'confirmed'\\)").
		WithArgs(7, "2024-06-01", 12, 10).
		WillReturnRows(bookingRows())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &Booking{
		Reference: "ref-1",
		CourtID:   7,
		Date:      date,
		StartHour: 10,
		Duration:  2,
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListForCourtDateFiltersBlocking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	date := testDate(t)

	mock.ExpectQuery("AND status IN \\('pending', 'confirmed'\\)").
		WithArgs(7, "2024-06-01").
		WillReturnRows(bookingRows().
			AddRow(1, "ref-1", 2, 7, "Badminton", 5, date, 8, 2, 1000, "pending", now, now).
			AddRow(2, "ref-2", 2, 7, "Badminton", 6, date, 10, 2, 1000, "confirmed", now, now))

	bookings, err := repo.ListForCourtDate(context.Background(), 7, date, true)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, StatusPending, bookings[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// success: the booking was still in the expected state
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(StatusConfirmed, 42, StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateStatus(context.Background(), 42, StatusPending, StatusConfirmed)
	require.NoError(t, err)
	require.True(t, updated)

	// lost race: zero rows affected
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(StatusCancelled, 42, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err = repo.UpdateStatus(context.Background(), 42, StatusConfirmed, StatusCancelled)
	require.NoError(t, err)
	require.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	require.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	require.False(t, IsRetryable(&pq.Error{Code: "23P01"}))
	require.False(t, IsRetryable(context.DeadlineExceeded))
	require.False(t, IsRetryable(nil))
}
