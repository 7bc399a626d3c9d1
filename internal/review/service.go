package review

import (
	"context"
	"errors"

	"quickcourt/internal/auth"
	"quickcourt/internal/facility"
	"quickcourt/internal/metrics"
)

var ErrNotReviewAuthor = errors.New("not the review author")

type Service interface {
	Create(ctx context.Context, userID, facilityID int, req CreateReviewRequest) (*Review, error)
	ListByFacility(ctx context.Context, facilityID int) (*Summary, error)
	Delete(ctx context.Context, actorID int, actorRole string, reviewID int) error
}

type service struct {
	repo         Repository
	facilityRepo facility.Repository
}

func NewService(repo Repository, facilityRepo facility.Repository) Service {
	return &service{repo: repo, facilityRepo: facilityRepo}
}

func (s *service) Create(ctx context.Context, userID, facilityID int, req CreateReviewRequest) (*Review, error) {
	// Reviews only make sense against facilities that actually exist.
	if _, err := s.facilityRepo.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}

	rev, err := s.repo.Create(ctx, facilityID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	metrics.RecordReviewCreated()
	return rev, nil
}

func (s *service) ListByFacility(ctx context.Context, facilityID int) (*Summary, error) {
	if _, err := s.facilityRepo.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.repo.Stats(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		AverageRating: avg,
		Count:         count,
		Reviews:       reviews,
	}, nil
}

// Delete removes a review. Authors may delete their own reviews, admins may
// delete any.
func (s *service) Delete(ctx context.Context, actorID int, actorRole string, reviewID int) error {
	rev, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if rev.UserID != actorID && actorRole != auth.RoleAdmin {
		return ErrNotReviewAuthor
	}

	return s.repo.Delete(ctx, reviewID)
}
