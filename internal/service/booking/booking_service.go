package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxAdmitAttempts bounds retries of the admission unit on serialization failure.
const maxAdmitAttempts = 2

type BookingUseCase interface {
	CreatePublicBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CreateStaffBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	Today(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, to domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	CheckAvailability(ctx context.Context, fieldID string, day calendar.Day, slot calendar.Range) (Availability, error)
	BookedHours(ctx context.Context, fieldID string, day calendar.Day) ([]string, error)
	SlotGrid(ctx context.Context, fieldID string, day calendar.Day) ([]Slot, error)
	Stats(ctx context.Context) (domain.BookingStats, error)
	ExpireStalePending(ctx context.Context) ([]domain.Booking, error)
}

// Cache stores booked hours per generation. SetBookedHours receives the
// generation observed by the missing read, which invalidation has bumped if a
// booking changed in between.
type Cache interface {
	GetBookedHours(ctx context.Context, fieldID string, day calendar.Day) (hours []string, gen int64, ok bool, err error)
	SetBookedHours(ctx context.Context, fieldID string, day calendar.Day, gen int64, hours []string) error
	InvalidateBookedHours(ctx context.Context, fieldID string, day calendar.Day) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	fields             repository.FieldRepository
	cache              Cache
	producer           Producer
	logger             *slog.Logger
	zone               calendar.Zone
	hours              calendar.Hours
	policy             domain.CancellationPolicy
	bookingTopic       string
	notificationsTopic string
	publishTimeout     time.Duration
	now                func() time.Time
}

type CreateBookingInput struct {
	FieldID       string `json:"field_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
}

// Availability is the result of checking a candidate range. Conflict is the
// booking holding the range when Available is false.
type Availability struct {
	Available bool            `json:"available"`
	Conflict  *domain.Booking `json:"-"`
}

// Slot is one hour cell of the operating-hours grid.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPublishTimeout(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	fields repository.FieldRepository,
	cache Cache,
	producer Producer,
	logger *slog.Logger,
	zone calendar.Zone,
	hours calendar.Hours,
	policy domain.CancellationPolicy,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		fields:         fields,
		cache:          cache,
		producer:       producer,
		logger:         logger,
		zone:           zone,
		hours:          hours,
		policy:         policy,
		bookingTopic:   bookingTopic,
		publishTimeout: 5 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreatePublicBooking admits a self-service request; it waits in PENDING for staff.
func (s *BookingService) CreatePublicBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	return s.admit(ctx, input, domain.BookingStatusPending, kafka.SourcePublic)
}

// CreateStaffBooking admits a booking entered from the dashboard straight into CONFIRMED.
func (s *BookingService) CreateStaffBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	return s.admit(ctx, input, domain.BookingStatusConfirmed, kafka.SourceDashboard)
}

func (s *BookingService) admit(ctx context.Context, input CreateBookingInput, status domain.BookingStatus, source string) (*domain.Booking, error) {
	ctx, span := obs.Tracer().Start(ctx, "booking.admit", trace.WithAttributes(
		attribute.String("field.id", input.FieldID),
		attribute.String("booking.date", input.Date),
		attribute.String("booking.status", string(status)),
	))
	defer span.End()

	b, err := s.prepare(ctx, input, status)
	if err != nil {
		return nil, err
	}

	check := func(existing []domain.Booking) error {
		if c := domain.FindConflict(existing, b.Slot); c != nil {
			return domain.ConflictError{Resource: "booking", Msg: "slot already booked", Existing: c}
		}
		return nil
	}

	for attempt := 1; attempt <= maxAdmitAttempts; attempt++ {
		err = s.bookings.Admit(ctx, b, check)
		if !errors.Is(err, repository.ErrSerialization) {
			break
		}
		s.logger.Warn("admission serialization failure",
			"field_id", b.FieldID, "date", b.Day.String(), "attempt", attempt)
	}

	switch {
	case err == nil:
	case domain.IsConflict(err):
		span.SetAttributes(attribute.Bool("booking.conflict", true))
		return nil, err
	case errors.Is(err, repository.ErrSerialization), errors.Is(err, repository.ErrSlotTaken):
		span.SetAttributes(attribute.Bool("booking.conflict", true))
		return nil, domain.ConflictError{Resource: "booking", Msg: "slot already booked", Err: err}
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "admission failed")
		return nil, fmt.Errorf("admit booking: %w", err)
	}

	s.invalidateBookedHours(ctx, b.FieldID, b.Day)
	s.publish(ctx, kafka.EventBookingCreated, source, *b)
	s.logger.Info("booking admitted",
		"booking_id", b.ID, "field_id", b.FieldID, "date", b.Day.String(), "slot", b.Slot.String(), "status", b.Status)
	return b, nil
}

// prepare validates input and derives duration and price from the field.
func (s *BookingService) prepare(ctx context.Context, input CreateBookingInput, status domain.BookingStatus) (*domain.Booking, error) {
	if status != domain.BookingStatusPending && status != domain.BookingStatusConfirmed {
		return nil, domain.ValidationError{Field: "status", Msg: "initial status must be PENDING or CONFIRMED"}
	}

	slot, err := calendar.ParseRange(input.StartTime, input.EndTime)
	if err != nil {
		return nil, domain.ValidationError{Field: "time", Msg: err.Error(), Err: err}
	}

	day, err := calendar.ParseDay(input.Date)
	if err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: err.Error(), Err: err}
	}

	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, domain.ValidationError{Field: "customer_name", Msg: "customer name is required"}
	}

	if input.FieldID == "" {
		return nil, domain.ValidationError{Field: "field_id", Msg: "field is required"}
	}
	field, err := s.fields.GetByID(ctx, input.FieldID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ValidationError{Field: "field_id", Msg: "field not found", Err: err}
		}
		return nil, fmt.Errorf("load field %s: %w", input.FieldID, err)
	}
	if !field.IsActive {
		return nil, domain.ValidationError{Field: "field_id", Msg: "field is not active"}
	}

	duration := slot.Hours()
	return &domain.Booking{
		ID:            uuid.NewString(),
		FieldID:       field.ID,
		FieldName:     field.Name,
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Day:           day,
		Slot:          slot,
		Duration:      duration,
		TotalPrice:    field.PricePerHour * int64(duration),
		Status:        status,
		Notes:         strings.TrimSpace(input.Notes),
	}, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Today lists every booking on the current civil day.
func (s *BookingService) Today(ctx context.Context) ([]domain.Booking, error) {
	today := s.zone.ToDay(s.now())
	return s.List(ctx, domain.BookingFilter{Day: &today})
}

// UpdateStatus applies a staff status change. Cancellation goes through the
// lead-time policy before the transition table.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, to domain.BookingStatus) (*domain.Booking, error) {
	ctx, span := obs.Tracer().Start(ctx, "booking.update_status", trace.WithAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.to", string(to)),
	))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if to == domain.BookingStatusCancelled {
		if err := s.policy.CanCancel(*current, s.now()); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, current, to)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingUpdated, kafka.SourceDashboard, *updated)
	s.logger.Info("booking status changed", "booking_id", id, "from", current.Status, "to", updated.Status)
	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, id, domain.BookingStatusCancelled)
}

func (s *BookingService) transition(ctx context.Context, current *domain.Booking, to domain.BookingStatus) (*domain.Booking, error) {
	updated, err := s.bookings.UpdateStatus(ctx, current.ID, current.Status, to)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStatusChanged):
		return nil, domain.StateError{
			From:   string(current.Status),
			To:     string(to),
			Reason: "booking status changed concurrently, reload and retry",
		}
	case errors.Is(err, repository.ErrNotFound):
		return nil, domain.NotFoundError{Resource: "booking", Err: err}
	default:
		return nil, fmt.Errorf("update booking %s status: %w", current.ID, err)
	}

	if current.Status.Active() != updated.Status.Active() {
		s.invalidateBookedHours(ctx, updated.FieldID, updated.Day)
	}
	return updated, nil
}

func (s *BookingService) CheckAvailability(ctx context.Context, fieldID string, day calendar.Day, slot calendar.Range) (Availability, error) {
	existing, err := s.bookings.ListActiveForDay(ctx, fieldID, day)
	if err != nil {
		return Availability{}, fmt.Errorf("load bookings for %s on %s: %w", fieldID, day, err)
	}
	if c := domain.FindConflict(existing, slot); c != nil {
		return Availability{Available: false, Conflict: c}, nil
	}
	return Availability{Available: true}, nil
}

// BookedHours lists the hour labels held by active bookings on (field, day).
func (s *BookingService) BookedHours(ctx context.Context, fieldID string, day calendar.Day) ([]string, error) {
	fill := false
	var gen int64
	if s.cache != nil {
		hours, g, ok, err := s.cache.GetBookedHours(ctx, fieldID, day)
		switch {
		case err != nil:
			s.logger.Warn("booked hours cache read failed", "field_id", fieldID, "date", day.String(), "error", err)
		case ok:
			return hours, nil
		default:
			fill, gen = true, g
		}
	}

	existing, err := s.bookings.ListActiveForDay(ctx, fieldID, day)
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s on %s: %w", fieldID, day, err)
	}
	hours := domain.BookedHourLabels(existing)

	if fill {
		if err := s.cache.SetBookedHours(ctx, fieldID, day, gen, hours); err != nil {
			s.logger.Warn("booked hours cache write failed", "field_id", fieldID, "date", day.String(), "error", err)
		}
	}
	return hours, nil
}

// SlotGrid annotates each operating hour with whether it is still free.
func (s *BookingService) SlotGrid(ctx context.Context, fieldID string, day calendar.Day) ([]Slot, error) {
	booked, err := s.BookedHours(ctx, fieldID, day)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, h := range booked {
		taken[h] = true
	}

	labels := s.hours.Labels()
	grid := make([]Slot, 0, len(labels))
	for _, l := range labels {
		grid = append(grid, Slot{Time: l, Available: !taken[l]})
	}
	return grid, nil
}

func (s *BookingService) Stats(ctx context.Context) (domain.BookingStats, error) {
	stats, err := s.bookings.Stats(ctx, s.zone.ToDay(s.now()))
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("booking stats: %w", err)
	}
	return stats, nil
}

// ExpireStalePending cancels PENDING bookings whose start has passed. It is a
// system sweep, so the lead-time policy does not apply.
func (s *BookingService) ExpireStalePending(ctx context.Context) ([]domain.Booking, error) {
	now := s.now()
	pending, err := s.bookings.ListPendingThrough(ctx, s.zone.ToDay(now))
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}

	expired := make([]domain.Booking, 0)
	for i := range pending {
		b := pending[i]
		if b.Scheduled(s.zone).After(now) {
			continue
		}
		if err := domain.ValidateTransition(b.Status, domain.BookingStatusCancelled); err != nil {
			continue
		}

		updated, err := s.transition(ctx, &b, domain.BookingStatusCancelled)
		if err != nil {
			if domain.IsState(err) || domain.IsNotFound(err) {
				continue
			}
			return expired, err
		}
		s.publish(ctx, kafka.EventBookingExpired, kafka.SourceSystem, *updated)
		expired = append(expired, *updated)
	}

	if len(expired) > 0 {
		s.logger.Info("expired stale pending bookings", "count", len(expired))
	}
	return expired, nil
}

func (s *BookingService) invalidateBookedHours(ctx context.Context, fieldID string, day calendar.Day) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBookedHours(ctx, fieldID, day); err != nil {
		s.logger.Warn("booked hours cache invalidation failed", "field_id", fieldID, "date", day.String(), "error", err)
	}
}

// publish is best effort: the booking is already committed, so failures are
// only logged. The timeout bounds a synchronous producer; the app wires a
// kafka.AsyncPublisher so the request never waits on the broker.
func (s *BookingService) publish(ctx context.Context, eventType, source string, b domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	event := kafka.NewBookingEvent(eventType, source, b, s.now())
	if err := s.producer.Publish(ctx, s.bookingTopic, b.ID, event); err != nil {
		s.logger.Warn("failed to publish booking event", "type", eventType, "booking_id", b.ID, "topic", s.bookingTopic, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
			s.logger.Warn("failed to publish booking event", "type", eventType, "booking_id", b.ID, "topic", s.notificationsTopic, "error", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
