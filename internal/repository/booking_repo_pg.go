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

// AdmitCheck inspects the active bookings of the (field, day) being admitted
// into and returns a non-nil error to abort the insert.
type AdmitCheck func(existing []domain.Booking) error

type BookingRepository interface {
	// Admit runs check and the insert as one unit serialised per
	// (b.FieldID, b.Day).
	Admit(ctx context.Context, b *domain.Booking, check AdmitCheck) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	ListActiveForDay(ctx context.Context, fieldID string, day calendar.Day) ([]domain.Booking, error)
	ListPendingThrough(ctx context.Context, day calendar.Day) ([]domain.Booking, error)
	// UpdateStatus moves id from -> to, failing with ErrStatusChanged when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)
	CountByField(ctx context.Context, fieldID string) (int, error)
	Stats(ctx context.Context, today calendar.Day) (domain.BookingStats, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.field_id, f.name, b.customer_name, b.customer_phone, b.day,
	b.start_minute, b.end_minute, b.duration, b.total_price, b.status, b.notes, b.created_at, b.updated_at`

const bookingFrom = ` FROM bookings b JOIN fields f ON f.id = b.field_id`

// admissionTxOptions is read committed: every statement after the advisory
// lock takes a fresh snapshot, so the active-booking read sees rows committed
// by the previous lock holder. The exclusion constraint backs the lock.
var admissionTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func (r *PGBookingRepository) Admit(ctx context.Context, b *domain.Booking, check AdmitCheck) error {
	tx, err := r.db.BeginTx(ctx, admissionTxOptions)
	if err != nil {
		return fmt.Errorf("begin admission: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, admissionKey(b.FieldID, b.Day)); err != nil {
		return translate(err)
	}

	rows, err := tx.Query(ctx, `SELECT `+bookingColumns+bookingFrom+`
		WHERE b.field_id = $1 AND b.day = $2 AND b.status = ANY($3)
		ORDER BY b.start_minute`, b.FieldID, b.Day.Time(), activeStatusNames())
	if err != nil {
		return translate(err)
	}
	existing, err := collectBookings(rows)
	if err != nil {
		return translate(err)
	}

	if err := check(existing); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings
		(id, field_id, customer_name, customer_phone, day, start_minute, end_minute, duration, total_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		b.ID, b.FieldID, b.CustomerName, b.CustomerPhone, b.Day.Time(), int(b.Slot.Start), int(b.Slot.End),
		b.Duration, b.TotalPrice, string(b.Status), b.Notes).
		Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return translate(err)
	}

	return translate(tx.Commit(ctx))
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var (
		where []string
		args  []any
	)
	if filter.Day != nil {
		args = append(args, filter.Day.Time())
		where = append(where, fmt.Sprintf("b.day = $%d", len(args)))
	}
	if filter.FieldID != "" {
		args = append(args, filter.FieldID)
		where = append(where, fmt.Sprintf("b.field_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + bookingFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.day DESC, b.start_minute ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListActiveForDay(ctx context.Context, fieldID string, day calendar.Day) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+bookingFrom+`
		WHERE b.field_id = $1 AND b.day = $2 AND b.status = ANY($3)
		ORDER BY b.start_minute`, fieldID, day.Time(), activeStatusNames())
	if err != nil {
		return nil, translate(err)
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListPendingThrough(ctx context.Context, day calendar.Day) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+bookingFrom+`
		WHERE b.status = $1 AND b.day <= $2
		ORDER BY b.day, b.start_minute`, string(domain.BookingStatusPending), day.Time())
	if err != nil {
		return nil, translate(err)
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
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

func (r *PGBookingRepository) CountByField(ctx context.Context, fieldID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE field_id = $1`, fieldID).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *PGBookingRepository) Stats(ctx context.Context, today calendar.Day) (domain.BookingStats, error) {
	var s domain.BookingStats
	err := r.db.QueryRow(ctx, `SELECT
			count(*) FILTER (WHERE day = $1),
			count(*) FILTER (WHERE status = $2),
			count(*) FILTER (WHERE status = $3)
		FROM bookings`, today.Time(), string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)).
		Scan(&s.TodayBookings, &s.PendingBookings, &s.ConfirmedBookings)
	if err != nil {
		return domain.BookingStats{}, translate(err)
	}
	return s, nil
}

func admissionKey(fieldID string, day calendar.Day) string {
	return "admission:" + fieldID + ":" + day.String()
}

func activeStatusNames() []string {
	names := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		names = append(names, string(s))
	}
	return names
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b          domain.Booking
		day        time.Time
		start, end int
		status     string
	)
	if err := row.Scan(&b.ID, &b.FieldID, &b.FieldName, &b.CustomerName, &b.CustomerPhone, &day,
		&start, &end, &b.Duration, &b.TotalPrice, &status, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return domain.Booking{}, err
	}
	b.Day = calendar.DayOf(day)
	b.Slot = calendar.Range{Start: calendar.Clock(start), End: calendar.Clock(end)}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
