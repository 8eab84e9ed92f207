package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/domain"
)

const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_status_changed"
	EventBookingExpired = "booking_expired"
)

// Sources tell notification readers where a booking came from.
const (
	SourcePublic    = "public"
	SourceDashboard = "dashboard"
	SourceSystem    = "system"
)

type BookingEvent struct {
	Type          string    `json:"type"`
	Source        string    `json:"source"`
	BookingID     string    `json:"booking_id"`
	FieldID       string    `json:"field_id"`
	FieldName     string    `json:"field_name"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Duration      int       `json:"duration"`
	TotalPrice    int64     `json:"total_price"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, source string, b domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		Source:        source,
		BookingID:     b.ID,
		FieldID:       b.FieldID,
		FieldName:     b.FieldName,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Day.String(),
		StartTime:     b.Slot.Start.String(),
		EndTime:       b.Slot.End.String(),
		Duration:      b.Duration,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		Notes:         b.Notes,
		OccurredAt:    at.UTC(),
	}
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if ev.Type == "" || ev.BookingID == "" {
		return BookingEvent{}, fmt.Errorf("decode booking event: missing type or booking id")
	}
	return ev, nil
}
