package domain

import (
	"testing"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingStartingAt(t *testing.T, start time.Time, status BookingStatus) Booking {
	t.Helper()
	clock := calendar.WIB.ClockOf(start)
	slot, err := calendar.NewRange(clock, clock+60)
	require.NoError(t, err)
	return Booking{
		ID:     "b-1",
		Day:    calendar.WIB.ToDay(start),
		Slot:   slot,
		Status: status,
	}
}

func TestCancellationPolicy_LeadTimeBoundary(t *testing.T) {
	policy := NewCancellationPolicy(calendar.WIB, 3*time.Hour)
	now := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		lead    time.Duration
		allowed bool
	}{
		{name: "179 minutes", lead: 179 * time.Minute, allowed: false},
		{name: "exactly 180 minutes", lead: 180 * time.Minute, allowed: true},
		{name: "181 minutes", lead: 181 * time.Minute, allowed: true},
		{name: "already started", lead: -time.Hour, allowed: false},
		{name: "next week", lead: 7 * 24 * time.Hour, allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := bookingStartingAt(t, now.Add(tc.lead), BookingStatusConfirmed)
			err := policy.CanCancel(b, now)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			require.True(t, IsState(err))
			assert.Contains(t, err.Error(), "within minimum lead time")
		})
	}
}

func TestCancellationPolicy_TerminalStatuses(t *testing.T) {
	policy := NewCancellationPolicy(calendar.WIB, 0)
	now := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)
	start := now.Add(48 * time.Hour)

	err := policy.CanCancel(bookingStartingAt(t, start, BookingStatusCancelled), now)
	require.True(t, IsState(err))
	assert.Equal(t, "already cancelled", err.Error())

	err = policy.CanCancel(bookingStartingAt(t, start, BookingStatusCompleted), now)
	require.True(t, IsState(err))
	assert.Equal(t, "already completed", err.Error())

	assert.NoError(t, policy.CanCancel(bookingStartingAt(t, start, BookingStatusPending), now))
	assert.Equal(t, DefaultMinCancelLead, policy.MinLead)
}
