package domain

import (
	"slices"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
)

// FindConflict returns the first active booking in existing whose slot
// overlaps candidate, or nil when the candidate is free. Callers pass the
// bookings of a single (field, day).
func FindConflict(existing []Booking, candidate calendar.Range) *Booking {
	for i := range existing {
		if !existing[i].Status.Active() {
			continue
		}
		if existing[i].Slot.Overlaps(candidate) {
			b := existing[i]
			return &b
		}
	}
	return nil
}

// BookedHourLabels expands every active booking into the whole-hour labels it
// touches, de-duplicated and in ascending order.
func BookedHourLabels(bookings []Booking) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		for _, l := range b.Slot.HourLabels() {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			labels = append(labels, l)
		}
	}
	slices.Sort(labels)
	return labels
}
