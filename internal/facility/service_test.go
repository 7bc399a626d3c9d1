package facility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFacilityRepo struct{ mock.Mock }

func (m *MockFacilityRepo) Create(ctx context.Context, ownerID int, req CreateFacilityRequest) (*Facility, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Facility), args.Error(1)
}

func (m *MockFacilityRepo) GetByID(ctx context.Context, id int) (*Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Facility), args.Error(1)
}

func (m *MockFacilityRepo) List(ctx context.Context, status, city string, limit, offset int) ([]Facility, error) {
	args := m.Called(ctx, status, city, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Facility), args.Error(1)
}

func (m *MockFacilityRepo) ListByOwner(ctx context.Context, ownerID int) ([]Facility, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Facility), args.Error(1)
}

func (m *MockFacilityRepo) UpdateInfo(ctx context.Context, id int, req UpdateFacilityRequest) (*Facility, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Facility), args.Error(1)
}

func (m *MockFacilityRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockFacilityRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFacilityRepo) GetCourtInfo(ctx context.Context, courtID int) (*CourtInfo, error) {
	args := m.Called(ctx, courtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CourtInfo), args.Error(1)
}

func (m *MockFacilityRepo) UpdateCourtStatus(ctx context.Context, courtID int, status string) error {
	return m.Called(ctx, courtID, status).Error(0)
}

func validRequest() CreateFacilityRequest {
	return CreateFacilityRequest{
		Name:    "Riverside Sports Hub",
		Address: "12 River Road",
		City:    "Pune",
		Sports: []SportInput{
			{
				Name:         "Badminton",
				PricePerHour: 500,
				Courts:       []CourtInput{{Name: "Court 1"}, {Name: "Court 2"}},
			},
			{
				Name:         "Tennis",
				PricePerHour: 800,
				Courts:       []CourtInput{{Name: "Court 1"}},
			},
		},
	}
}

func TestCreateFacility(t *testing.T) {
	ctx := context.Background()

	t.Run("valid facility", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		req := validRequest()
		repo.On("Create", ctx, 9, req).Return(&Facility{ID: 2, OwnerID: 9, Status: StatusPending}, nil)

		f, err := svc.Create(ctx, 9, req)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, f.Status)
	})

	t.Run("duplicate sport names", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		req := validRequest()
		req.Sports[1].Name = " badminton "

		_, err := svc.Create(ctx, 9, req)

		assert.ErrorIs(t, err, ErrDuplicateSport)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate court names within a sport", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		req := validRequest()
		req.Sports[0].Courts[1].Name = "court 1"

		_, err := svc.Create(ctx, 9, req)

		assert.ErrorIs(t, err, ErrDuplicateCourt)
	})

	t.Run("partial schedule is rejected", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		req := validRequest()
		req.Sports[0].Schedule = []ScheduleInput{
			{Weekday: 1, OpenTime: "09:00", CloseTime: "21:00", IsOpen: true},
		}

		_, err := svc.Create(ctx, 9, req)

		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("schedule with repeated weekday is rejected", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		req := validRequest()
		schedule := make([]ScheduleInput, 7)
		for i := range schedule {
			schedule[i] = ScheduleInput{Weekday: i, OpenTime: "09:00", CloseTime: "21:00", IsOpen: true}
		}
		schedule[6].Weekday = 0
		req.Sports[0].Schedule = schedule

		_, err := svc.Create(ctx, 9, req)

		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestUpdateFacility(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		repo.On("GetByID", ctx, 2).Return(&Facility{ID: 2, OwnerID: 9}, nil)
		name := "Updated Name"
		req := UpdateFacilityRequest{Name: &name}
		repo.On("UpdateInfo", ctx, 2, req).Return(&Facility{ID: 2, OwnerID: 9, Name: "Updated Name"}, nil)

		f, err := svc.Update(ctx, 9, 2, req)

		require.NoError(t, err)
		assert.Equal(t, "Updated Name", f.Name)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		repo.On("GetByID", ctx, 2).Return(&Facility{ID: 2, OwnerID: 9}, nil)

		_, err := svc.Update(ctx, 13, 2, UpdateFacilityRequest{})

		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "UpdateInfo")
	})
}

func TestSetFacilityStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		repo.On("UpdateStatus", ctx, 2, StatusApproved).Return(nil)

		assert.NoError(t, svc.SetStatus(ctx, 2, StatusApproved))
	})

	t.Run("arbitrary status is rejected", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		err := svc.SetStatus(ctx, 2, "archived")

		assert.ErrorIs(t, err, ErrInvalidStatus)
		repo.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestSetCourtStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deactivates a court", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		repo.On("GetCourtInfo", ctx, 7).Return(&CourtInfo{CourtID: 7, OwnerID: 9}, nil)
		repo.On("UpdateCourtStatus", ctx, 7, CourtInactive).Return(nil)

		assert.NoError(t, svc.SetCourtStatus(ctx, 9, 7, CourtInactive))
	})

	t.Run("non-owner cannot change court status", func(t *testing.T) {
		repo := new(MockFacilityRepo)
		svc := NewService(repo)

		repo.On("GetCourtInfo", ctx, 7).Return(&CourtInfo{CourtID: 7, OwnerID: 9}, nil)

		err := svc.SetCourtStatus(ctx, 13, 7, CourtInactive)

		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "UpdateCourtStatus")
	})
}

func TestListByStatus(t *testing.T) {
	ctx := context.Background()

	repo := new(MockFacilityRepo)
	svc := NewService(repo)

	repo.On("List", ctx, StatusPending, "", 20, 0).Return([]Facility{{ID: 1}}, nil)

	facilities, err := svc.ListByStatus(ctx, StatusPending, 20, 0)
	require.NoError(t, err)
	assert.Len(t, facilities, 1)

	_, err = svc.ListByStatus(ctx, "bogus", 20, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()

	require.Len(t, schedule, 7)

	seen := make(map[int]bool)
	for _, entry := range schedule {
		assert.False(t, seen[entry.Weekday])
		seen[entry.Weekday] = true
		assert.True(t, entry.IsOpen)
		assert.Less(t, entry.OpenTime, entry.CloseTime)
	}
}
