package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	// MarkPaid flips an UNPAID transaction to PAID; ErrStatusChanged when it is not UNPAID.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Transaction, error)
	SumPaid(ctx context.Context, from, to time.Time) (int64, error)
	// ListPaid returns PAID transactions whose paid_at lies in [from, to].
	ListPaid(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}

type PGTransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &PGTransactionRepository{db: db}
}

const transactionSelect = `SELECT t.id, t.booking_id, t.amount, t.payment_method, t.payment_status, t.paid_at,
	t.notes, t.created_at, t.updated_at, f.name, b.customer_name
	FROM transactions t
	JOIN bookings b ON b.id = t.booking_id
	JOIN fields f ON f.id = b.field_id`

func (r *PGTransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	err := r.db.QueryRow(ctx, `INSERT INTO transactions (id, booking_id, amount, payment_method, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		t.ID, t.BookingID, t.Amount, string(t.PaymentMethod), string(t.PaymentStatus), t.Notes).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

func (r *PGTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *PGTransactionRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE booking_id = $1)`, bookingID).Scan(&exists)
	return exists, translate(err)
}

func (r *PGTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("t.payment_status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	query := transactionSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return collectTransactions(rows)
}

func (r *PGTransactionRepository) ListPaid(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, transactionSelect+` WHERE t.payment_status = $1 AND t.paid_at >= $2 AND t.paid_at <= $3
		ORDER BY t.paid_at`, string(domain.PaymentStatusPaid), from, to)
	if err != nil {
		return nil, translate(err)
	}
	return collectTransactions(rows)
}

func (r *PGTransactionRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Transaction, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET payment_status = $1, paid_at = $2, updated_at = now()
		WHERE id = $3 AND payment_status = $4`,
		string(domain.PaymentStatusPaid), paidAt, id, string(domain.PaymentStatusUnpaid))
	if err != nil {
		return nil, translate(err)
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}

func (r *PGTransactionRepository) SumPaid(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE payment_status = $1 AND paid_at >= $2 AND paid_at <= $3`,
		string(domain.PaymentStatusPaid), from, to).Scan(&total)
	return total, translate(err)
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		t              domain.Transaction
		method, status string
	)
	if err := row.Scan(&t.ID, &t.BookingID, &t.Amount, &method, &status, &t.PaidAt,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.FieldName, &t.CustomerName); err != nil {
		return domain.Transaction{}, err
	}
	t.PaymentMethod = domain.PaymentMethod(method)
	t.PaymentStatus = domain.PaymentStatus(status)
	return t, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ TransactionRepository = (*PGTransactionRepository)(nil)
