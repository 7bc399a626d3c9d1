package facility

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickcourt/internal/metrics"
)

var (
	ErrNotOwner        = errors.New("not the facility owner")
	ErrDuplicateSport  = errors.New("sport names must be unique within a facility")
	ErrDuplicateCourt  = errors.New("court names must be unique within a sport")
	ErrInvalidSchedule = errors.New("weekly schedule must cover all seven weekdays exactly once")
	ErrInvalidStatus   = errors.New("invalid status")
)

type Service interface {
	Create(ctx context.Context, ownerID int, req CreateFacilityRequest) (*Facility, error)
	GetByID(ctx context.Context, id int) (*Facility, error)
	ListApproved(ctx context.Context, city string, limit, offset int) ([]Facility, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]Facility, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Facility, error)
	Update(ctx context.Context, actorID, facilityID int, req UpdateFacilityRequest) (*Facility, error)
	Delete(ctx context.Context, actorID, facilityID int, isAdmin bool) error
	SetStatus(ctx context.Context, facilityID int, status string) error
	SetCourtStatus(ctx context.Context, actorID, courtID int, status string) error
	GetCourtInfo(ctx context.Context, courtID int) (*CourtInfo, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID int, req CreateFacilityRequest) (*Facility, error) {
	if err := validateSports(req.Sports); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, ownerID, req)
}

func validateSports(sports []SportInput) error {
	sportNames := make(map[string]bool, len(sports))
	for _, sport := range sports {
		key := strings.ToLower(strings.TrimSpace(sport.Name))
		if sportNames[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateSport, sport.Name)
		}
		sportNames[key] = true

		if len(sport.Schedule) > 0 {
			if len(sport.Schedule) != 7 {
				return ErrInvalidSchedule
			}
			seen := make(map[int]bool, 7)
			for _, entry := range sport.Schedule {
				if seen[entry.Weekday] {
					return ErrInvalidSchedule
				}
				seen[entry.Weekday] = true
			}
		}

		courtNames := make(map[string]bool, len(sport.Courts))
		for _, court := range sport.Courts {
			key := strings.ToLower(strings.TrimSpace(court.Name))
			if courtNames[key] {
				return fmt.Errorf("%w: %q", ErrDuplicateCourt, court.Name)
			}
			courtNames[key] = true
		}
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListApproved(ctx context.Context, city string, limit, offset int) ([]Facility, error) {
	return s.repo.List(ctx, StatusApproved, city, limit, offset)
}

func (s *service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]Facility, error) {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, status, "", limit, offset)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int) ([]Facility, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, actorID, facilityID int, req UpdateFacilityRequest) (*Facility, error) {
	current, err := s.repo.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	return s.repo.UpdateInfo(ctx, facilityID, req)
}

func (s *service) Delete(ctx context.Context, actorID, facilityID int, isAdmin bool) error {
	current, err := s.repo.GetByID(ctx, facilityID)
	if err != nil {
		return err
	}
	if !isAdmin && current.OwnerID != actorID {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, facilityID)
}

func (s *service) SetStatus(ctx context.Context, facilityID int, status string) error {
	switch status {
	case StatusApproved, StatusRejected:
	default:
		return ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, facilityID, status); err != nil {
		return err
	}

	metrics.RecordFacilityStatusChange(status)
	return nil
}

func (s *service) SetCourtStatus(ctx context.Context, actorID, courtID int, status string) error {
	switch status {
	case CourtActive, CourtInactive:
	default:
		return ErrInvalidStatus
	}

	info, err := s.repo.GetCourtInfo(ctx, courtID)
	if err != nil {
		return err
	}
	if info.OwnerID != actorID {
		return ErrNotOwner
	}

	return s.repo.UpdateCourtStatus(ctx, courtID, status)
}

func (s *service) GetCourtInfo(ctx context.Context, courtID int) (*CourtInfo, error) {
	return s.repo.GetCourtInfo(ctx, courtID)
}
