package review

import "context"

type Repository interface {
	Create(ctx context.Context, facilityID, userID, rating int, comment string) (*Review, error)
	GetByID(ctx context.Context, id int) (*Review, error)
	ListByFacility(ctx context.Context, facilityID int) ([]Review, error)
	Stats(ctx context.Context, facilityID int) (avg float64, count int, err error)
	Delete(ctx context.Context, id int) error
}
