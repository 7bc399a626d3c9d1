package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickcourt/internal/facility"
	"quickcourt/internal/logger"
	"quickcourt/internal/metrics"
	"quickcourt/internal/user"

	"github.com/google/uuid"
)

const (
	createRetries    = 3
	createRetryDelay = 50 * time.Millisecond
)

// Notifier delivers booking lifecycle notifications. Delivery is
// best-effort and must never fail the booking operation.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking, email, name string)
	BookingStatusChanged(ctx context.Context, b *Booking, from Status, email, name string)
}

type Service interface {
	CheckAvailability(ctx context.Context, facilityID, courtID int, date string, startHour, duration int) (*Availability, error)
	CreateBooking(ctx context.Context, userID, facilityID, courtID int, req CreateBookingRequest) (*Booking, error)
	SetStatus(ctx context.Context, actorID, facilityID, bookingID int, to Status) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) (*Booking, error)
	ListByUser(ctx context.Context, userID int) ([]BookingWithDetails, error)
	ListByFacility(ctx context.Context, actorID, facilityID int) ([]BookingWithDetails, error)
	StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error)
	StatsByFacility(ctx context.Context, from, to time.Time) ([]StatsByFacility, error)
}

type service struct {
	repo         Repository
	facilityRepo facility.Repository
	userRepo     user.Repository
	notifier     Notifier

	openHour  int
	closeHour int
}

func NewService(repo Repository, facilityRepo facility.Repository, userRepo user.Repository, notifier Notifier, openHour, closeHour int) Service {
	return &service{
		repo:         repo,
		facilityRepo: facilityRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		openHour:     openHour,
		closeHour:    closeHour,
	}
}

func (s *service) CheckAvailability(ctx context.Context, facilityID, courtID int, dateStr string, startHour, duration int) (*Availability, error) {
	date, err := s.validateSlot(dateStr, startHour, duration)
	if err != nil {
		return nil, err
	}

	info, err := s.facilityRepo.GetCourtInfo(ctx, courtID)
	if err != nil {
		if errors.Is(err, facility.ErrCourtNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if info.FacilityID != facilityID {
		return nil, facility.ErrCourtNotFound
	}

	existing, err := s.repo.ListForCourtDate(ctx, courtID, date, true)
	if err != nil {
		// Availability cannot be confirmed; callers must treat this as
		// "slot unavailable", never as free.
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	conflicts := findConflicts(existing, startHour, duration)
	return &Availability{
		Conflict:    len(conflicts) > 0,
		Conflicting: conflicts,
	}, nil
}

func (s *service) CreateBooking(ctx context.Context, userID, facilityID, courtID int, req CreateBookingRequest) (*Booking, error) {
	date, err := s.validateSlot(req.Date, req.StartHour, req.Duration)
	if err != nil {
		return nil, err
	}

	today, _ := time.Parse(DateFormat, time.Now().Format(DateFormat))
	if date.Before(today) {
		return nil, fmt.Errorf("%w: cannot book a date in the past", ErrInvalidInput)
	}

	info, err := s.facilityRepo.GetCourtInfo(ctx, courtID)
	if err != nil {
		if errors.Is(err, facility.ErrCourtNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	if info.FacilityID != facilityID {
		return nil, facility.ErrCourtNotFound
	}
	if info.FacilityStatus != facility.StatusApproved {
		return nil, fmt.Errorf("%w: facility is not open for booking", ErrInvalidInput)
	}
	if info.CourtStatus != facility.CourtActive {
		return nil, fmt.Errorf("%w: court is inactive", ErrInvalidInput)
	}
	if req.SportName != "" && req.SportName != info.SportName {
		return nil, fmt.Errorf("%w: court does not belong to sport %q", ErrInvalidInput, req.SportName)
	}

	b := &Booking{
		Reference:  uuid.NewString(),
		FacilityID: facilityID,
		CourtID:    courtID,
		SportName:  info.SportName,
		UserID:     userID,
		Date:       date,
		StartHour:  req.StartHour,
		Duration:   req.Duration,
		TotalPrice: info.PricePerHour * int64(req.Duration),
		Status:     StatusPending,
	}

	created, err := s.createWithRetry(ctx, b)
	if err != nil {
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			metrics.RecordBookingConflict()
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	metrics.RecordBookingCreated()
	s.notifyCreated(ctx, created)

	return created, nil
}

// createWithRetry retries transient serialization failures a bounded number
// of times. Conflicts are surfaced immediately; the user has to pick a new
// slot, retrying would only lose again.
func (s *service) createWithRetry(ctx context.Context, b *Booking) (*Booking, error) {
	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(createRetryDelay << uint(attempt-1)):
			}
		}

		created, err := s.repo.Create(ctx, b)
		if err == nil {
			return created, nil
		}

		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			return nil, err
		}

		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		logger.Debugf("Retrying booking create after transient error (attempt %d): %v", attempt+1, err)
	}

	return nil, lastErr
}

func (s *service) validateSlot(dateStr string, startHour, duration int) (time.Time, error) {
	date, err := time.Parse(DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if duration < 1 || duration > 6 {
		return time.Time{}, fmt.Errorf("%w: duration must be between 1 and 6 hours", ErrInvalidInput)
	}

	if startHour < s.openHour || startHour+duration > s.closeHour {
		return time.Time{}, fmt.Errorf("%w: booking must fit between %02d:00 and %02d:00",
			ErrInvalidInput, s.openHour, s.closeHour)
	}

	return date, nil
}

// SetStatus is the owner-side transition: confirm or reject a pending
// booking.
func (s *service) SetStatus(ctx context.Context, actorID, facilityID, bookingID int, to Status) (*Booking, error) {
	if to != StatusConfirmed && to != StatusRejected {
		return nil, &InvalidTransitionError{To: to}
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.FacilityID != facilityID {
		return nil, ErrBookingNotFound
	}

	f, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facility.ErrFacilityNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if f.OwnerID != actorID {
		return nil, ErrNotFacilityOwner
	}

	return s.transition(ctx, b, to)
}

// Cancel is the user-side transition: cancel an own confirmed booking.
func (s *service) Cancel(ctx context.Context, userID, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	return s.transition(ctx, b, StatusCancelled)
}

func (s *service) transition(ctx context.Context, b *Booking, to Status) (*Booking, error) {
	if !CanTransition(b.Status, to) {
		return nil, &InvalidTransitionError{From: b.Status, To: to}
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if !updated {
		// The booking changed under us; report against its current state.
		current, err := s.repo.GetByID(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: current.Status, To: to}
	}

	from := b.Status
	b.Status = to
	metrics.RecordBookingTransition(string(from), string(to))
	s.notifyStatusChanged(ctx, b, from)

	return b, nil
}

func (s *service) notifyCreated(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}
	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil {
		logger.Errorf("Failed to resolve user %d for booking notification: %v", b.UserID, err)
		return
	}
	s.notifier.BookingCreated(ctx, b, u.Email, u.Name)
}

func (s *service) notifyStatusChanged(ctx context.Context, b *Booking, from Status) {
	if s.notifier == nil {
		return
	}
	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil {
		logger.Errorf("Failed to resolve user %d for booking notification: %v", b.UserID, err)
		return
	}
	s.notifier.BookingStatusChanged(ctx, b, from, u.Email, u.Name)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByFacility(ctx context.Context, actorID, facilityID int) ([]BookingWithDetails, error) {
	f, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if f.OwnerID != actorID {
		return nil, ErrNotFacilityOwner
	}

	return s.repo.ListByFacility(ctx, facilityID)
}

func (s *service) StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	return s.repo.StatsByDay(ctx, from, to)
}

func (s *service) StatsByFacility(ctx context.Context, from, to time.Time) ([]StatsByFacility, error) {
	return s.repo.StatsByFacility(ctx, from, to)
}
