package domain

import (
	"fmt"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
)

const DefaultMinCancelLead = 3 * time.Hour

// CancellationPolicy gates cancellation requests on a minimum lead time
// before the booking starts. A lead of exactly MinLead is allowed.
type CancellationPolicy struct {
	Zone    calendar.Zone
	MinLead time.Duration
}

func NewCancellationPolicy(zone calendar.Zone, minLead time.Duration) CancellationPolicy {
	if minLead <= 0 {
		minLead = DefaultMinCancelLead
	}
	return CancellationPolicy{Zone: zone, MinLead: minLead}
}

// CanCancel returns nil when b may be cancelled at now, otherwise a StateError.
func (p CancellationPolicy) CanCancel(b Booking, now time.Time) error {
	switch b.Status {
	case BookingStatusCancelled:
		return StateError{From: string(b.Status), To: string(BookingStatusCancelled), Reason: "already cancelled"}
	case BookingStatusCompleted:
		return StateError{From: string(b.Status), To: string(BookingStatusCancelled), Reason: "already completed"}
	}

	lead := b.Scheduled(p.Zone).Sub(now)
	if lead < p.MinLead {
		return StateError{
			From:   string(b.Status),
			To:     string(BookingStatusCancelled),
			Reason: fmt.Sprintf("within minimum lead time: cancellation closes %s before start", p.MinLead),
		}
	}
	return nil
}
