package domain

import (
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodEWallet  PaymentMethod = "EWALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

// Transaction is the single payment record of a booking.
type Transaction struct {
	ID            string
	BookingID     string
	Amount        int64
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	PaidAt        *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Filled by list queries.
	FieldName    string
	CustomerName string
}

type TransactionFilter struct {
	Status PaymentStatus
	From   *time.Time
	To     *time.Time
}

type Expense struct {
	ID          string
	Day         calendar.Day
	Amount      int64
	Description string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExpenseFilter struct {
	From     *calendar.Day
	To       *calendar.Day
	Category string
}
