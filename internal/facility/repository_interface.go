package facility

import "context"

type Repository interface {
	Create(ctx context.Context, ownerID int, req CreateFacilityRequest) (*Facility, error)
	GetByID(ctx context.Context, id int) (*Facility, error)
	List(ctx context.Context, status, city string, limit, offset int) ([]Facility, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Facility, error)
	UpdateInfo(ctx context.Context, id int, req UpdateFacilityRequest) (*Facility, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
	GetCourtInfo(ctx context.Context, courtID int) (*CourtInfo, error)
	UpdateCourtStatus(ctx context.Context, courtID int, status string) error
}
