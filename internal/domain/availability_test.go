package domain

import (
	"testing"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/stretchr/testify/assert"
)

func slot(start, end string) calendar.Range {
	r, err := calendar.ParseRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func TestFindConflict(t *testing.T) {
	existing := []Booking{
		{ID: "cancelled", Slot: slot("09:00", "11:00"), Status: BookingStatusCancelled},
		{ID: "done", Slot: slot("13:00", "15:00"), Status: BookingStatusCompleted},
		{ID: "held", Slot: slot("10:00", "12:00"), Status: BookingStatusConfirmed},
		{ID: "pending", Slot: slot("16:00", "17:00"), Status: BookingStatusPending},
	}

	tests := []struct {
		name      string
		candidate calendar.Range
		want      string
	}{
		{"starts during existing", slot("11:00", "13:00"), "held"},
		{"ends during existing", slot("09:00", "10:30"), "held"},
		{"contains existing", slot("09:00", "13:00"), "held"},
		{"inside existing", slot("10:15", "10:45"), "held"},
		{"touches end", slot("12:00", "13:00"), ""},
		{"touches start", slot("08:00", "10:00"), ""},
		{"over terminal bookings only", slot("13:00", "15:00"), ""},
		{"pending blocks", slot("16:30", "18:00"), "pending"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(existing, tt.candidate)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.want, got.ID)
			}
		})
	}
}

func TestFindConflict_NoData(t *testing.T) {
	assert.Nil(t, FindConflict(nil, slot("09:00", "10:00")))
}

func TestBookedHourLabels(t *testing.T) {
	bookings := []Booking{
		{Slot: slot("09:00", "11:00"), Status: BookingStatusConfirmed},
		{Slot: slot("10:30", "12:00"), Status: BookingStatusPending},
		{Slot: slot("14:00", "14:30"), Status: BookingStatusPending},
		{Slot: slot("18:00", "20:00"), Status: BookingStatusCancelled},
		{Slot: slot("23:00", "24:00"), Status: BookingStatusConfirmed},
	}

	assert.Equal(t, []string{"09:00", "10:00", "11:00", "14:00", "23:00"}, BookedHourLabels(bookings))
	assert.Equal(t, []string{}, BookedHourLabels(nil))
}
