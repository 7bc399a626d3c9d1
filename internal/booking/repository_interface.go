package booking

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts the booking after re-checking for conflicts inside a
	// transaction that serializes writers on the target court. Returns a
	// *ConflictError when the interval is already taken.
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	// ListForCourtDate returns every booking for the court on the given
	// date. With blockingOnly set, rejected and cancelled bookings are
	// filtered out.
	ListForCourtDate(ctx context.Context, courtID int, date time.Time, blockingOnly bool) ([]Booking, error)
	ListByUser(ctx context.Context, userID int) ([]BookingWithDetails, error)
	ListByFacility(ctx context.Context, facilityID int) ([]BookingWithDetails, error)
	// UpdateStatus performs the conditional transition from -> to. Zero rows
	// affected means the booking is gone or no longer in the expected state.
	UpdateStatus(ctx context.Context, id int, from, to Status) (bool, error)
	StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error)
	StatsByFacility(ctx context.Context, from, to time.Time) ([]StatsByFacility, error)
}
