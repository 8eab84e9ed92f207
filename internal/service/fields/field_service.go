package fields

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/google/uuid"
)

type FieldUseCase interface {
	List(ctx context.Context) ([]domain.Field, error)
	ListActive(ctx context.Context) ([]domain.Field, error)
	Get(ctx context.Context, id string) (*domain.Field, error)
	Create(ctx context.Context, input FieldInput) (*domain.Field, error)
	Update(ctx context.Context, id string, input FieldInput) (*domain.Field, error)
	Toggle(ctx context.Context, id string) (*domain.Field, error)
	Delete(ctx context.Context, id string) error
}

type FieldCache interface {
	GetActiveFields(ctx context.Context) ([]domain.Field, error)
	SetActiveFields(ctx context.Context, fields []domain.Field) error
	InvalidateFields(ctx context.Context) error
}

// BookingCounter reports how many bookings of any status reference a field.
type BookingCounter interface {
	CountByField(ctx context.Context, fieldID string) (int, error)
}

type FieldInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PricePerHour int64  `json:"price_per_hour"`
	IsActive     *bool  `json:"is_active"`
}

type FieldService struct {
	repo     repository.FieldRepository
	bookings BookingCounter
	cache    FieldCache
	logger   *slog.Logger
}

func NewFieldService(repo repository.FieldRepository, bookings BookingCounter, cache FieldCache, logger *slog.Logger) *FieldService {
	return &FieldService{repo: repo, bookings: bookings, cache: cache, logger: logger}
}

func (s *FieldService) List(ctx context.Context) ([]domain.Field, error) {
	fields, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// ListActive serves the public catalog, read through the cache.
func (s *FieldService) ListActive(ctx context.Context) ([]domain.Field, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetActiveFields(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	fields, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active fields: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetActiveFields(ctx, fields); err != nil {
			s.logger.Warn("fields cache write failed", "error", err)
		}
	}
	return fields, nil
}

func (s *FieldService) Get(ctx context.Context, id string) (*domain.Field, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return f, nil
}

func (s *FieldService) Create(ctx context.Context, input FieldInput) (*domain.Field, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	f := &domain.Field{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		PricePerHour: input.PricePerHour,
		IsActive:     input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}
	s.invalidate(ctx)
	s.logger.Info("field created", "field_id", f.ID, "name", f.Name)
	return f, nil
}

func (s *FieldService) Update(ctx context.Context, id string, input FieldInput) (*domain.Field, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Name = strings.TrimSpace(input.Name)
	f.Description = strings.TrimSpace(input.Description)
	f.PricePerHour = input.PricePerHour
	if input.IsActive != nil {
		f.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, notFound(err, id)
	}
	s.invalidate(ctx)
	return f, nil
}

func (s *FieldService) Toggle(ctx context.Context, id string) (*domain.Field, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.IsActive = !f.IsActive
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, notFound(err, id)
	}
	s.invalidate(ctx)
	s.logger.Info("field toggled", "field_id", id, "active", f.IsActive)
	return f, nil
}

// Delete removes a field that has never been booked. Fields with history can
// only be deactivated.
func (s *FieldService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.bookings.CountByField(ctx, id)
	if err != nil {
		return fmt.Errorf("count bookings for field %s: %w", id, err)
	}
	if n > 0 {
		return domain.ConflictError{
			Resource: "field",
			Msg:      fmt.Sprintf("field has %d booking(s); deactivate it instead", n),
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return domain.ConflictError{Resource: "field", Msg: "field is referenced by bookings; deactivate it instead", Err: err}
		}
		return notFound(err, id)
	}
	s.invalidate(ctx)
	s.logger.Info("field deleted", "field_id", id)
	return nil
}

func (s *FieldService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFields(ctx); err != nil {
		s.logger.Warn("fields cache invalidation failed", "error", err)
	}
}

func validate(input FieldInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if input.PricePerHour <= 0 {
		return domain.ValidationError{Field: "price_per_hour", Msg: "price per hour must be positive"}
	}
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError{Resource: "field", Err: err}
	}
	return fmt.Errorf("field %s: %w", id, err)
}

var _ FieldUseCase = (*FieldService)(nil)
