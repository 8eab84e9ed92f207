package expenses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/google/uuid"
)

type ExpenseUseCase interface {
	Create(ctx context.Context, input ExpenseInput) (*domain.Expense, error)
	Update(ctx context.Context, id string, input ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
	Categories(ctx context.Context) ([]string, error)
	Total(ctx context.Context, period calendar.Period) (int64, error)
}

// ExpenseInput.Date is either YYYY-MM-DD or an RFC 3339 timestamp, which is
// normalized to its civil day.
type ExpenseInput struct {
	Date        string `json:"date"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ExpenseService struct {
	repo   repository.ExpenseRepository
	zone   calendar.Zone
	logger *slog.Logger
}

func NewExpenseService(repo repository.ExpenseRepository, zone calendar.Zone, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{repo: repo, zone: zone, logger: logger}
}

func (s *ExpenseService) Create(ctx context.Context, input ExpenseInput) (*domain.Expense, error) {
	e, err := s.build(input)
	if err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.logger.Info("expense recorded", "expense_id", e.ID, "date", e.Day.String(), "amount", e.Amount)
	return e, nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, input ExpenseInput) (*domain.Expense, error) {
	e, err := s.build(input)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.ValidationError{Field: "from", Msg: "from must not be after to"}
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	return categories, nil
}

func (s *ExpenseService) Total(ctx context.Context, period calendar.Period) (int64, error) {
	total, err := s.repo.Total(ctx, period.From, period.To)
	if err != nil {
		return 0, fmt.Errorf("total expenses: %w", err)
	}
	return total, nil
}

func (s *ExpenseService) build(input ExpenseInput) (*domain.Expense, error) {
	day, err := s.parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, domain.ValidationError{Field: "amount", Msg: "amount must be positive"}
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ValidationError{Field: "description", Msg: "description is required"}
	}
	return &domain.Expense{
		Day:         day,
		Amount:      input.Amount,
		Description: description,
		Category:    strings.TrimSpace(input.Category),
	}, nil
}

func (s *ExpenseService) parseDate(raw string) (calendar.Day, error) {
	raw = strings.TrimSpace(raw)
	if day, err := calendar.ParseDay(raw); err == nil {
		return day, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return s.zone.ToDay(t), nil
	}
	return calendar.Day{}, domain.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD or RFC 3339"}
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError{Resource: "expense", Err: err}
	}
	return fmt.Errorf("expense %s: %w", id, err)
}

var _ ExpenseUseCase = (*ExpenseService)(nil)
