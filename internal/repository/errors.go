package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSerialization is a transient isolation failure; the unit of work may be retried.
	ErrSerialization = errors.New("serialization failure")
	// ErrSlotTaken is raised by the bookings exclusion constraint.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrStatusChanged means a compare-and-set on status found a different status.
	ErrStatusChanged = errors.New("status changed concurrently")
	ErrDuplicate     = errors.New("duplicate record")
	ErrInUse         = errors.New("record is referenced")
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeExclusionViolation   = "23P01"
)

// translate maps driver errors onto the package sentinels, leaving anything
// else untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return errors.Join(ErrSerialization, err)
		case codeExclusionViolation:
			return errors.Join(ErrSlotTaken, err)
		case codeUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case codeForeignKeyViolation:
			return errors.Join(ErrInUse, err)
		}
	}
	return err
}
