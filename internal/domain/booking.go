package domain

import (
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// ActiveStatuses are the statuses that still reserve their slot.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Active reports whether a booking in this status blocks its slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	ID            string
	FieldID       string
	FieldName     string
	CustomerName  string
	CustomerPhone string
	Day           calendar.Day
	Slot          calendar.Range
	Duration      int
	TotalPrice    int64
	Status        BookingStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Scheduled is the absolute instant the booking starts.
func (b Booking) Scheduled(zone calendar.Zone) time.Time {
	return zone.Combine(b.Day, b.Slot.Start)
}

type BookingFilter struct {
	Day     *calendar.Day
	FieldID string
	Status  BookingStatus
}

type BookingStats struct {
	TodayBookings     int `json:"today_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
}
