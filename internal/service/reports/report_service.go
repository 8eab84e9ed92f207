package reports

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
)

// OtherCategory labels expenses recorded without a category.
const OtherCategory = "Other"

type ReportUseCase interface {
	Period(preset, from, to string) (calendar.Period, error)
	Summary(ctx context.Context, period calendar.Period) (Summary, error)
	DailyIncome(ctx context.Context, period calendar.Period) ([]DailyAmount, error)
	IncomeByField(ctx context.Context, period calendar.Period) ([]FieldAmount, error)
	ExpensesByCategory(ctx context.Context, period calendar.Period) ([]CategoryAmount, error)
}

type PaidTransactions interface {
	ListPaid(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}

type Expenses interface {
	List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
	Total(ctx context.Context, from, to calendar.Day) (int64, error)
}

type Summary struct {
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	Profit           int64 `json:"profit"`
	TransactionCount int   `json:"transaction_count"`
}

type DailyAmount struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type FieldAmount struct {
	FieldName string `json:"field_name"`
	Amount    int64  `json:"amount"`
	Count     int    `json:"count"`
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type ReportService struct {
	transactions PaidTransactions
	expenses     Expenses
	zone         calendar.Zone
	now          func() time.Time
}

func NewReportService(transactions PaidTransactions, expenses Expenses, zone calendar.Zone) *ReportService {
	return &ReportService{transactions: transactions, expenses: expenses, zone: zone, now: time.Now}
}

// Period resolves explicit from/to dates, or the named preset when both are empty.
func (s *ReportService) Period(preset, from, to string) (calendar.Period, error) {
	if from == "" && to == "" {
		return s.zone.Preset(preset, s.now()), nil
	}
	if from == "" || to == "" {
		return calendar.Period{}, domain.ValidationError{Field: "from", Msg: "from and to must be given together"}
	}
	f, err := calendar.ParseDay(from)
	if err != nil {
		return calendar.Period{}, domain.ValidationError{Field: "from", Msg: err.Error(), Err: err}
	}
	t, err := calendar.ParseDay(to)
	if err != nil {
		return calendar.Period{}, domain.ValidationError{Field: "to", Msg: err.Error(), Err: err}
	}
	if f.After(t) {
		return calendar.Period{}, domain.ValidationError{Field: "from", Msg: "from must not be after to"}
	}
	return calendar.Period{From: f, To: t}, nil
}

func (s *ReportService) Summary(ctx context.Context, period calendar.Period) (Summary, error) {
	paid, err := s.paid(ctx, period)
	if err != nil {
		return Summary{}, err
	}
	expense, err := s.expenses.Total(ctx, period.From, period.To)
	if err != nil {
		return Summary{}, fmt.Errorf("total expenses: %w", err)
	}

	var income int64
	for _, t := range paid {
		income += t.Amount
	}
	return Summary{
		TotalIncome:      income,
		TotalExpense:     expense,
		Profit:           income - expense,
		TransactionCount: len(paid),
	}, nil
}

// DailyIncome groups paid amounts by the civil day of paid_at, oldest first.
func (s *ReportService) DailyIncome(ctx context.Context, period calendar.Period) ([]DailyAmount, error) {
	paid, err := s.paid(ctx, period)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64)
	for _, t := range paid {
		if t.PaidAt == nil {
			continue
		}
		byDay[s.zone.ToDay(*t.PaidAt).String()] += t.Amount
	}

	out := make([]DailyAmount, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, DailyAmount{Date: day, Amount: amount})
	}
	slices.SortFunc(out, func(a, b DailyAmount) int { return cmp.Compare(a.Date, b.Date) })
	return out, nil
}

func (s *ReportService) IncomeByField(ctx context.Context, period calendar.Period) ([]FieldAmount, error) {
	paid, err := s.paid(ctx, period)
	if err != nil {
		return nil, err
	}

	byField := make(map[string]*FieldAmount)
	for _, t := range paid {
		fa, ok := byField[t.FieldName]
		if !ok {
			fa = &FieldAmount{FieldName: t.FieldName}
			byField[t.FieldName] = fa
		}
		fa.Amount += t.Amount
		fa.Count++
	}

	out := make([]FieldAmount, 0, len(byField))
	for _, fa := range byField {
		out = append(out, *fa)
	}
	slices.SortFunc(out, func(a, b FieldAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.FieldName, b.FieldName)
	})
	return out, nil
}

func (s *ReportService) ExpensesByCategory(ctx context.Context, period calendar.Period) ([]CategoryAmount, error) {
	list, err := s.expenses.List(ctx, domain.ExpenseFilter{From: &period.From, To: &period.To})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	byCategory := make(map[string]int64)
	for _, e := range list {
		category := e.Category
		if category == "" {
			category = OtherCategory
		}
		byCategory[category] += e.Amount
	}

	out := make([]CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		out = append(out, CategoryAmount{Category: category, Amount: amount})
	}
	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out, nil
}

func (s *ReportService) paid(ctx context.Context, period calendar.Period) ([]domain.Transaction, error) {
	list, err := s.transactions.ListPaid(ctx, s.zone.DayStart(period.From), s.zone.DayEnd(period.To))
	if err != nil {
		return nil, fmt.Errorf("list paid transactions: %w", err)
	}
	return list, nil
}

var _ ReportUseCase = (*ReportService)(nil)
