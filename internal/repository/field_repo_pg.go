package repository

import (
	"context"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FieldRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Field, error)
	GetByID(ctx context.Context, id string) (*domain.Field, error)
	Create(ctx context.Context, f *domain.Field) error
	Update(ctx context.Context, f *domain.Field) error
	Delete(ctx context.Context, id string) error
}

type PGFieldRepository struct {
	db *pgxpool.Pool
}

func NewFieldRepository(db *pgxpool.Pool) FieldRepository {
	return &PGFieldRepository{db: db}
}

const fieldColumns = `id, name, description, price_per_hour, is_active, created_at, updated_at`

func (r *PGFieldRepository) List(ctx context.Context, activeOnly bool) ([]domain.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	fields := make([]domain.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *PGFieldRepository) GetByID(ctx context.Context, id string) (*domain.Field, error) {
	f, err := scanField(r.db.QueryRow(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *PGFieldRepository) Create(ctx context.Context, f *domain.Field) error {
	err := r.db.QueryRow(ctx, `INSERT INTO fields (id, name, description, price_per_hour, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
		f.ID, f.Name, f.Description, f.PricePerHour, f.IsActive).Scan(&f.CreatedAt, &f.UpdatedAt)
	return translate(err)
}

func (r *PGFieldRepository) Update(ctx context.Context, f *domain.Field) error {
	err := r.db.QueryRow(ctx, `UPDATE fields SET name = $2, description = $3, price_per_hour = $4, is_active = $5, updated_at = now()
		WHERE id = $1 RETURNING created_at, updated_at`,
		f.ID, f.Name, f.Description, f.PricePerHour, f.IsActive).Scan(&f.CreatedAt, &f.UpdatedAt)
	return translate(err)
}

func (r *PGFieldRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM fields WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanField(row pgx.Row) (domain.Field, error) {
	var f domain.Field
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.PricePerHour, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

var _ FieldRepository = (*PGFieldRepository)(nil)
