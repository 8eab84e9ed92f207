package timeslots

import (
	"context"
	"testing"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTimeSlotRepository struct {
	mock.Mock
}

func (m *MockTimeSlotRepository) List(ctx context.Context, activeOnly bool) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotRepository) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotRepository) MaxSortOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTimeSlotRepository) Create(ctx context.Context, s *domain.TimeSlot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockTimeSlotRepository) Update(ctx context.Context, s *domain.TimeSlot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockTimeSlotRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestTimeSlotService_ListActive_ExpandsHours(t *testing.T) {
	repo := &MockTimeSlotRepository{}
	svc := NewTimeSlotService(repo, obs.Discard())
	ctx := context.Background()

	repo.On("List", ctx, true).Return([]domain.TimeSlot{
		{ID: "morning", Name: "Morning", StartTime: "08:00", EndTime: "11:00"},
		{ID: "broken", Name: "Broken", StartTime: "12:00", EndTime: "10:00"},
	}, nil).Once()

	categories, err := svc.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Morning", categories[0].Name)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, categories[0].Hours)
}

func TestTimeSlotService_Create_AppendsSortOrder(t *testing.T) {
	repo := &MockTimeSlotRepository{}
	svc := NewTimeSlotService(repo, obs.Discard())
	ctx := context.Background()

	repo.On("MaxSortOrder", ctx).Return(3, nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.TimeSlot) bool {
		return s.SortOrder == 4 && s.IsActive && s.StartTime == "18:00" && s.EndTime == "22:00"
	})).Return(nil).Once()

	slot, err := svc.Create(ctx, TimeSlotInput{Name: "Evening", StartTime: "18:00", EndTime: "22:00"})

	require.NoError(t, err)
	assert.Equal(t, "Evening", slot.Name)
	repo.AssertExpectations(t)
}

func TestTimeSlotService_Create_ExplicitSortOrder(t *testing.T) {
	repo := &MockTimeSlotRepository{}
	svc := NewTimeSlotService(repo, obs.Discard())
	ctx := context.Background()
	order, inactive := 0, false

	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.TimeSlot) bool {
		return s.SortOrder == 0 && !s.IsActive
	})).Return(nil).Once()

	_, err := svc.Create(ctx, TimeSlotInput{Name: "Dawn", StartTime: "06:00", EndTime: "08:00", SortOrder: &order, IsActive: &inactive})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "MaxSortOrder", mock.Anything)
}

func TestTimeSlotService_Create_Validation(t *testing.T) {
	svc := NewTimeSlotService(&MockTimeSlotRepository{}, obs.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, TimeSlotInput{Name: "", StartTime: "08:00", EndTime: "09:00"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(ctx, TimeSlotInput{Name: "Empty", StartTime: "09:00", EndTime: "09:00"})
	assert.True(t, domain.IsValidation(err))
}

func TestTimeSlotService_Toggle(t *testing.T) {
	repo := &MockTimeSlotRepository{}
	svc := NewTimeSlotService(repo, obs.Discard())
	ctx := context.Background()

	repo.On("GetByID", ctx, "s-1").Return(&domain.TimeSlot{ID: "s-1", IsActive: true}, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(s *domain.TimeSlot) bool { return !s.IsActive })).Return(nil).Once()

	slot, err := svc.Toggle(ctx, "s-1")

	require.NoError(t, err)
	assert.False(t, slot.IsActive)
}

func TestTimeSlotService_Delete_NotFound(t *testing.T) {
	repo := &MockTimeSlotRepository{}
	svc := NewTimeSlotService(repo, obs.Discard())
	ctx := context.Background()

	repo.On("Delete", ctx, "nope").Return(repository.ErrNotFound).Once()

	err := svc.Delete(ctx, "nope")

	assert.True(t, domain.IsNotFound(err))
}
