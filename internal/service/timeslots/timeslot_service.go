package timeslots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/google/uuid"
)

type TimeSlotUseCase interface {
	ListActive(ctx context.Context) ([]Category, error)
	ListAll(ctx context.Context) ([]domain.TimeSlot, error)
	Create(ctx context.Context, input TimeSlotInput) (*domain.TimeSlot, error)
	Update(ctx context.Context, id string, input TimeSlotInput) (*domain.TimeSlot, error)
	Toggle(ctx context.Context, id string) (*domain.TimeSlot, error)
	Delete(ctx context.Context, id string) error
}

type TimeSlotInput struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	SortOrder *int   `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// Category is an active time slot with the hour buttons it expands into.
type Category struct {
	domain.TimeSlot
	Hours []string `json:"hours"`
}

type TimeSlotService struct {
	repo   repository.TimeSlotRepository
	logger *slog.Logger
}

func NewTimeSlotService(repo repository.TimeSlotRepository, logger *slog.Logger) *TimeSlotService {
	return &TimeSlotService{repo: repo, logger: logger}
}

func (s *TimeSlotService) ListActive(ctx context.Context) ([]Category, error) {
	slots, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active time slots: %w", err)
	}

	categories := make([]Category, 0, len(slots))
	for _, slot := range slots {
		r, err := calendar.ParseRange(slot.StartTime, slot.EndTime)
		if err != nil {
			s.logger.Warn("skipping malformed time slot", "time_slot_id", slot.ID, "error", err)
			continue
		}
		categories = append(categories, Category{TimeSlot: slot, Hours: r.HourLabels()})
	}
	return categories, nil
}

func (s *TimeSlotService) ListAll(ctx context.Context) ([]domain.TimeSlot, error) {
	slots, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// Create appends the slot after the current last one unless a sort order is given.
func (s *TimeSlotService) Create(ctx context.Context, input TimeSlotInput) (*domain.TimeSlot, error) {
	r, err := validate(input)
	if err != nil {
		return nil, err
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else {
		last, err := s.repo.MaxSortOrder(ctx)
		if err != nil {
			return nil, fmt.Errorf("next sort order: %w", err)
		}
		order = last + 1
	}

	slot := &domain.TimeSlot{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		StartTime: r.Start.String(),
		EndTime:   r.End.String(),
		SortOrder: order,
		IsActive:  input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create time slot: %w", err)
	}
	s.logger.Info("time slot created", "time_slot_id", slot.ID, "range", r.String())
	return slot, nil
}

func (s *TimeSlotService) Update(ctx context.Context, id string, input TimeSlotInput) (*domain.TimeSlot, error) {
	r, err := validate(input)
	if err != nil {
		return nil, err
	}
	slot, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	slot.Name = strings.TrimSpace(input.Name)
	slot.StartTime = r.Start.String()
	slot.EndTime = r.End.String()
	if input.SortOrder != nil {
		slot.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, notFound(err, id)
	}
	return slot, nil
}

func (s *TimeSlotService) Toggle(ctx context.Context, id string) (*domain.TimeSlot, error) {
	slot, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	slot.IsActive = !slot.IsActive
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, notFound(err, id)
	}
	return slot, nil
}

func (s *TimeSlotService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (s *TimeSlotService) get(ctx context.Context, id string) (*domain.TimeSlot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return slot, nil
}

func validate(input TimeSlotInput) (calendar.Range, error) {
	if strings.TrimSpace(input.Name) == "" {
		return calendar.Range{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	r, err := calendar.ParseRange(input.StartTime, input.EndTime)
	if err != nil {
		return calendar.Range{}, domain.ValidationError{Field: "time", Msg: err.Error(), Err: err}
	}
	return r, nil
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError{Resource: "time slot", Err: err}
	}
	return fmt.Errorf("time slot %s: %w", id, err)
}

var _ TimeSlotUseCase = (*TimeSlotService)(nil)
