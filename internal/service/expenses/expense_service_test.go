package expenses

import (
	"context"
	"testing"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockExpenseRepository) Total(ctx context.Context, from, to calendar.Day) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func TestExpenseService_Create(t *testing.T) {
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, calendar.WIB, obs.Discard())
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.ID != "" && e.Day == calendar.Day{Year: 2024, Month: 3, Dom: 15} && e.Description == "Lamp replacement"
	})).Return(nil).Once()

	e, err := svc.Create(ctx, ExpenseInput{Date: "2024-03-15", Amount: 120000, Description: "  Lamp replacement ", Category: "Maintenance"})

	require.NoError(t, err)
	assert.Equal(t, "Maintenance", e.Category)
	repo.AssertExpectations(t)
}

func TestExpenseService_Create_NormalizesTimestamp(t *testing.T) {
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, calendar.WIB, obs.Discard())
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil).Once()

	// 18:30 UTC is already the next civil day in UTC+7.
	e, err := svc.Create(ctx, ExpenseInput{Date: "2024-03-14T18:30:00Z", Amount: 1, Description: "Water"})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", e.Day.String())
}

func TestExpenseService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input ExpenseInput
		field string
	}{
		{"bad date", ExpenseInput{Date: "15/03/2024", Amount: 1, Description: "x"}, "date"},
		{"zero amount", ExpenseInput{Date: "2024-03-15", Amount: 0, Description: "x"}, "amount"},
		{"blank description", ExpenseInput{Date: "2024-03-15", Amount: 1, Description: "  "}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExpenseService(&MockExpenseRepository{}, calendar.WIB, obs.Discard())
			_, err := svc.Create(context.Background(), tt.input)

			var verr domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestExpenseService_Update_NotFound(t *testing.T) {
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, calendar.WIB, obs.Discard())
	ctx := context.Background()

	repo.On("Update", ctx, mock.MatchedBy(func(e *domain.Expense) bool { return e.ID == "missing" })).
		Return(repository.ErrNotFound).Once()

	_, err := svc.Update(ctx, "missing", ExpenseInput{Date: "2024-03-15", Amount: 5, Description: "Net"})

	assert.True(t, domain.IsNotFound(err))
}

func TestExpenseService_List_RejectsInvertedRange(t *testing.T) {
	svc := NewExpenseService(&MockExpenseRepository{}, calendar.WIB, obs.Discard())
	from := calendar.Day{Year: 2024, Month: 3, Dom: 20}
	to := calendar.Day{Year: 2024, Month: 3, Dom: 10}

	_, err := svc.List(context.Background(), domain.ExpenseFilter{From: &from, To: &to})

	assert.True(t, domain.IsValidation(err))
}

func TestExpenseService_Total(t *testing.T) {
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, calendar.WIB, obs.Discard())
	ctx := context.Background()
	period := calendar.Period{From: calendar.Day{Year: 2024, Month: 3, Dom: 1}, To: calendar.Day{Year: 2024, Month: 3, Dom: 31}}

	repo.On("Total", ctx, period.From, period.To).Return(int64(750000), nil).Once()

	total, err := svc.Total(ctx, period)

	require.NoError(t, err)
	assert.Equal(t, int64(750000), total)
}
