package payments

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

type PaymentUseCase interface {
	Create(ctx context.Context, input CreatePaymentInput) (*domain.Transaction, error)
	MarkPaid(ctx context.Context, id string) (*domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, query ListQuery) ([]domain.Transaction, error)
	TodayIncome(ctx context.Context) (int64, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type CreatePaymentInput struct {
	BookingID     string               `json:"booking_id"`
	Amount        int64                `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// ListQuery filters by payment status and by the civil days the records were created on.
type ListQuery struct {
	Status domain.PaymentStatus
	From   *calendar.Day
	To     *calendar.Day
}

type PaymentService struct {
	transactions repository.TransactionRepository
	bookings     BookingReader
	zone         calendar.Zone
	logger       *slog.Logger
	now          func() time.Time
}

func NewPaymentService(transactions repository.TransactionRepository, bookings BookingReader, zone calendar.Zone, logger *slog.Logger) *PaymentService {
	return &PaymentService{transactions: transactions, bookings: bookings, zone: zone, logger: logger, now: time.Now}
}

// Create records the single payment of a booking, initially UNPAID.
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, domain.ValidationError{Field: "amount", Msg: "amount must be positive"}
	}
	if !input.PaymentMethod.Valid() {
		return nil, domain.ValidationError{Field: "payment_method", Msg: "payment method must be CASH, TRANSFER or EWALLET"}
	}

	b, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, fmt.Errorf("load booking %s: %w", input.BookingID, err)
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.StateError{From: string(b.Status), Reason: "cannot record a payment for a cancelled booking"}
	}

	exists, err := s.transactions.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing payment: %w", err)
	}
	if exists {
		return nil, domain.ConflictError{Resource: "transaction", Msg: "booking already has a transaction"}
	}

	t := &domain.Transaction{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         strings.TrimSpace(input.Notes),
		FieldName:     b.FieldName,
		CustomerName:  b.CustomerName,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ConflictError{Resource: "transaction", Msg: "booking already has a transaction", Err: err}
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Info("transaction created", "transaction_id", t.ID, "booking_id", b.ID, "amount", t.Amount)
	return t, nil
}

// MarkPaid is the only allowed payment mutation: UNPAID to PAID.
func (s *PaymentService) MarkPaid(ctx context.Context, id string) (*domain.Transaction, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PaymentStatus == domain.PaymentStatusPaid {
		return nil, alreadyPaid()
	}

	t, err := s.transactions.MarkPaid(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, alreadyPaid()
		}
		return nil, fmt.Errorf("mark transaction %s paid: %w", id, err)
	}
	s.logger.Info("transaction paid", "transaction_id", id, "amount", t.Amount)
	return t, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "transaction", Err: err}
		}
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (s *PaymentService) List(ctx context.Context, query ListQuery) ([]domain.Transaction, error) {
	if query.Status != "" && query.Status != domain.PaymentStatusPaid && query.Status != domain.PaymentStatusUnpaid {
		return nil, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown payment status %q", query.Status)}
	}

	filter := domain.TransactionFilter{Status: query.Status}
	if query.From != nil {
		from := s.zone.DayStart(*query.From)
		filter.From = &from
	}
	if query.To != nil {
		to := s.zone.DayEnd(*query.To)
		filter.To = &to
	}

	list, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// TodayIncome sums PAID amounts paid within the current civil day.
func (s *PaymentService) TodayIncome(ctx context.Context) (int64, error) {
	now := s.now()
	total, err := s.transactions.SumPaid(ctx, s.zone.StartOfDay(now), s.zone.EndOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("today income: %w", err)
	}
	return total, nil
}

func alreadyPaid() error {
	return domain.StateError{
		From:   string(domain.PaymentStatusPaid),
		To:     string(domain.PaymentStatusPaid),
		Reason: "transaction already paid",
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
