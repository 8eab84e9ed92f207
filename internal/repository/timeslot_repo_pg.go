package repository

import (
	"context"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeSlotRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.TimeSlot, error)
	GetByID(ctx context.Context, id string) (*domain.TimeSlot, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, s *domain.TimeSlot) error
	Update(ctx context.Context, s *domain.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

type PGTimeSlotRepository struct {
	db *pgxpool.Pool
}

func NewTimeSlotRepository(db *pgxpool.Pool) TimeSlotRepository {
	return &PGTimeSlotRepository{db: db}
}

const timeSlotColumns = `id, name, start_time, end_time, sort_order, is_active, created_at, updated_at`

func (r *PGTimeSlotRepository) List(ctx context.Context, activeOnly bool) ([]domain.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, start_time`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	slots := make([]domain.TimeSlot, 0)
	for rows.Next() {
		s, err := scanTimeSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PGTimeSlotRepository) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	s, err := scanTimeSlot(r.db.QueryRow(ctx, `SELECT `+timeSlotColumns+` FROM time_slots WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *PGTimeSlotRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM time_slots`).Scan(&n)
	return n, translate(err)
}

func (r *PGTimeSlotRepository) Create(ctx context.Context, s *domain.TimeSlot) error {
	err := r.db.QueryRow(ctx, `INSERT INTO time_slots (id, name, start_time, end_time, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		s.ID, s.Name, s.StartTime, s.EndTime, s.SortOrder, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *PGTimeSlotRepository) Update(ctx context.Context, s *domain.TimeSlot) error {
	err := r.db.QueryRow(ctx, `UPDATE time_slots SET name = $2, start_time = $3, end_time = $4, sort_order = $5, is_active = $6, updated_at = now()
		WHERE id = $1 RETURNING created_at, updated_at`,
		s.ID, s.Name, s.StartTime, s.EndTime, s.SortOrder, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *PGTimeSlotRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTimeSlot(row pgx.Row) (domain.TimeSlot, error) {
	var s domain.TimeSlot
	err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

var _ TimeSlotRepository = (*PGTimeSlotRepository)(nil)
