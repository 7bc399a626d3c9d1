package booking

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidInput     = errors.New("invalid booking request")
	ErrNotBookingOwner  = errors.New("not the booking owner")
	ErrNotFacilityOwner = errors.New("not the facility owner")

	// ErrDataUnavailable wraps storage failures. Availability can never be
	// confirmed on this error, so booking attempts fail closed.
	ErrDataUnavailable = errors.New("booking data unavailable")
)

// ConflictError reports that the requested interval overlaps existing
// blocking bookings on the same court and date.
type ConflictError struct {
	Conflicting []Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot is already booked (%d conflicting booking(s))", len(e.Conflicting))
}

// InvalidTransitionError reports a status machine violation.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition from %q to %q", e.From, e.To)
}
