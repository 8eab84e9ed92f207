package domain

import "fmt"

// Transition is one legal lifecycle edge together with how it is offered to staff.
type Transition struct {
	From    BookingStatus `json:"-"`
	To      BookingStatus `json:"status"`
	Action  string        `json:"action"`
	Label   string        `json:"label"`
	Variant string        `json:"variant"`
}

// transitions is the only definition of the lifecycle. Both ValidateTransition
// and the action lists are derived from it.
var transitions = []Transition{
	{From: BookingStatusPending, To: BookingStatusConfirmed, Action: "confirm", Label: "Confirm", Variant: "default"},
	{From: BookingStatusPending, To: BookingStatusCancelled, Action: "cancel", Label: "Cancel", Variant: "destructive"},
	{From: BookingStatusConfirmed, To: BookingStatusCompleted, Action: "complete", Label: "Complete", Variant: "default"},
	{From: BookingStatusConfirmed, To: BookingStatusCancelled, Action: "cancel", Label: "Cancel", Variant: "destructive"},
}

var statusLabels = map[BookingStatus]string{
	BookingStatusPending:   "Awaiting confirmation",
	BookingStatusConfirmed: "Confirmed",
	BookingStatusCancelled: "Cancelled",
	BookingStatusCompleted: "Completed",
}

// AllStatuses in lifecycle order.
var AllStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

func (s BookingStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func CanTransition(from, to BookingStatus) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the legal targets from a status. Terminal statuses have none.
func NextStatuses(from BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, t := range transitions {
		if t.From == from {
			out = append(out, t.To)
		}
	}
	return out
}

// NextActions is the presentation view of NextStatuses.
func NextActions(from BookingStatus) []Transition {
	out := []Transition{}
	for _, t := range transitions {
		if t.From == from {
			out = append(out, t)
		}
	}
	return out
}

// ValidateTransition returns nil when from -> to is legal and a StateError
// describing the rejection otherwise.
func ValidateTransition(from, to BookingStatus) error {
	if !to.Valid() {
		return ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", to)}
	}
	if from == to {
		return StateError{From: string(from), To: string(to), Reason: "status unchanged"}
	}
	if from.Terminal() {
		return StateError{From: string(from), To: string(to), Reason: fmt.Sprintf("booking already final (%s)", from)}
	}
	if !CanTransition(from, to) {
		next := NextStatuses(from)
		allowed := make([]string, 0, len(next))
		for _, s := range next {
			allowed = append(allowed, string(s))
		}
		return StateError{
			From:    string(from),
			To:      string(to),
			Reason:  fmt.Sprintf("transition from %s to %s is not allowed", from, to),
			Allowed: allowed,
		}
	}
	return nil
}
