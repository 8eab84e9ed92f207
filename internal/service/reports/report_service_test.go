package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaidTransactions struct {
	mock.Mock
}

func (m *MockPaidTransactions) ListPaid(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockExpenses struct {
	mock.Mock
}

func (m *MockExpenses) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenses) Total(ctx context.Context, from, to calendar.Day) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

var march = calendar.Period{
	From: calendar.Day{Year: 2024, Month: time.March, Dom: 1},
	To:   calendar.Day{Year: 2024, Month: time.March, Dom: 31},
}

func paidAt(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newTestService(tx *MockPaidTransactions, ex *MockExpenses) *ReportService {
	svc := NewReportService(tx, ex, calendar.WIB)
	svc.now = func() time.Time { return time.Date(2024, 3, 14, 3, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportService_Period(t *testing.T) {
	svc := newTestService(&MockPaidTransactions{}, &MockExpenses{})

	p, err := svc.Period("week", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", p.From.String())
	assert.Equal(t, "2024-03-17", p.To.String())

	p, err = svc.Period("", "", "")
	require.NoError(t, err)
	assert.Equal(t, march, p)

	p, err = svc.Period("year", "2024-02-01", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", p.To.String())

	_, err = svc.Period("", "2024-02-01", "")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Period("", "2024-03-10", "2024-03-01")
	assert.True(t, domain.IsValidation(err))
}

func TestReportService_Summary(t *testing.T) {
	tx := &MockPaidTransactions{}
	ex := &MockExpenses{}
	svc := newTestService(tx, ex)
	ctx := context.Background()

	tx.On("ListPaid", ctx, calendar.WIB.DayStart(march.From), calendar.WIB.DayEnd(march.To)).Return([]domain.Transaction{
		{Amount: 300000}, {Amount: 150000},
	}, nil).Once()
	ex.On("Total", ctx, march.From, march.To).Return(int64(500000), nil).Once()

	s, err := svc.Summary(ctx, march)

	require.NoError(t, err)
	assert.Equal(t, Summary{TotalIncome: 450000, TotalExpense: 500000, Profit: -50000, TransactionCount: 2}, s)
}

func TestReportService_Summary_PropagatesErrors(t *testing.T) {
	tx := &MockPaidTransactions{}
	svc := newTestService(tx, &MockExpenses{})
	ctx := context.Background()

	tx.On("ListPaid", ctx, mock.Anything, mock.Anything).Return([]domain.Transaction(nil), errors.New("db down")).Once()

	_, err := svc.Summary(ctx, march)

	assert.ErrorContains(t, err, "db down")
}

func TestReportService_DailyIncome_GroupsByCivilDay(t *testing.T) {
	tx := &MockPaidTransactions{}
	svc := newTestService(tx, &MockExpenses{})
	ctx := context.Background()

	tx.On("ListPaid", ctx, mock.Anything, mock.Anything).Return([]domain.Transaction{
		// 23:30 WIB on the 5th.
		{Amount: 100, PaidAt: paidAt("2024-03-05T16:30:00Z")},
		// 00:30 WIB on the 6th.
		{Amount: 200, PaidAt: paidAt("2024-03-05T17:30:00Z")},
		{Amount: 50, PaidAt: paidAt("2024-03-02T02:00:00Z")},
		{Amount: 999},
	}, nil).Once()

	days, err := svc.DailyIncome(ctx, march)

	require.NoError(t, err)
	assert.Equal(t, []DailyAmount{
		{Date: "2024-03-02", Amount: 50},
		{Date: "2024-03-05", Amount: 100},
		{Date: "2024-03-06", Amount: 200},
	}, days)
}

func TestReportService_IncomeByField(t *testing.T) {
	tx := &MockPaidTransactions{}
	svc := newTestService(tx, &MockExpenses{})
	ctx := context.Background()

	tx.On("ListPaid", ctx, mock.Anything, mock.Anything).Return([]domain.Transaction{
		{FieldName: "Court B", Amount: 100},
		{FieldName: "Court A", Amount: 300},
		{FieldName: "Court C", Amount: 300},
		{FieldName: "Court B", Amount: 150},
	}, nil).Once()

	fields, err := svc.IncomeByField(ctx, march)

	require.NoError(t, err)
	assert.Equal(t, []FieldAmount{
		{FieldName: "Court A", Amount: 300, Count: 1},
		{FieldName: "Court C", Amount: 300, Count: 1},
		{FieldName: "Court B", Amount: 250, Count: 2},
	}, fields)
}

func TestReportService_ExpensesByCategory(t *testing.T) {
	ex := &MockExpenses{}
	svc := newTestService(&MockPaidTransactions{}, ex)
	ctx := context.Background()

	ex.On("List", ctx, domain.ExpenseFilter{From: &march.From, To: &march.To}).Return([]domain.Expense{
		{Category: "Utilities", Amount: 400},
		{Category: "", Amount: 100},
		{Category: "Maintenance", Amount: 250},
		{Category: "Utilities", Amount: 100},
	}, nil).Once()

	got, err := svc.ExpensesByCategory(ctx, march)

	require.NoError(t, err)
	assert.Equal(t, []CategoryAmount{
		{Category: "Utilities", Amount: 500},
		{Category: "Maintenance", Amount: 250},
		{Category: OtherCategory, Amount: 100},
	}, got)
}
