package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) error
	Update(ctx context.Context, e *domain.Expense) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
	Categories(ctx context.Context) ([]string, error)
	Total(ctx context.Context, from, to calendar.Day) (int64, error)
}

type PGExpenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) ExpenseRepository {
	return &PGExpenseRepository{db: db}
}

const expenseColumns = `id, day, amount, description, category, created_at, updated_at`

func (r *PGExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	err := r.db.QueryRow(ctx, `INSERT INTO expenses (id, day, amount, description, category)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
		e.ID, e.Day.Time(), e.Amount, e.Description, nullable(e.Category)).Scan(&e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

func (r *PGExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	err := r.db.QueryRow(ctx, `UPDATE expenses SET day = $2, amount = $3, description = $4, category = $5, updated_at = now()
		WHERE id = $1 RETURNING created_at, updated_at`,
		e.ID, e.Day.Time(), e.Amount, e.Description, nullable(e.Category)).Scan(&e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

func (r *PGExpenseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := scanExpense(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *PGExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var (
		where []string
		args  []any
	)
	if filter.From != nil {
		args = append(args, filter.From.Time())
		where = append(where, fmt.Sprintf("day >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, filter.To.Time())
		where = append(where, fmt.Sprintf("day <= $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day DESC, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGExpenseRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM expenses WHERE category IS NOT NULL AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, translate(err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *PGExpenseRepository) Total(ctx context.Context, from, to calendar.Day) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE day >= $1 AND day <= $2`,
		from.Time(), to.Time()).Scan(&total)
	return total, translate(err)
}

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var (
		e        domain.Expense
		day      time.Time
		category *string
	)
	if err := row.Scan(&e.ID, &day, &e.Amount, &e.Description, &category, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.Expense{}, err
	}
	e.Day = calendar.DayOf(day)
	if category != nil {
		e.Category = *category
	}
	return e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ ExpenseRepository = (*PGExpenseRepository)(nil)
