package calendar

import (
	"errors"
	"fmt"
)

// Clock is a wall-clock time expressed as minutes since local midnight.
type Clock int

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

var ErrInvalidClock = errors.New("time must be in HH:MM format")

// ParseClock accepts strictly zero-padded 24-hour "HH:MM" values. "24:00" is
// accepted as the end-of-day bound.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if mm >= MinutesPerHour || hh > 24 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(hh*MinutesPerHour + mm), nil
}

func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / MinutesPerHour }
func (c Clock) Minute() int { return int(c) % MinutesPerHour }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Range is a half-open [Start, End) span of wall-clock time within one day.
type Range struct {
	Start Clock
	End   Clock
}

var ErrEmptyRange = errors.New("end must be after start")

func NewRange(start, end Clock) (Range, error) {
	if start >= end {
		return Range{}, ErrEmptyRange
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses both bounds and validates start < end.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return NewRange(s, e)
}

// Overlaps reports whether the two ranges share any instant. It covers the
// "starts during", "ends during" and "contains" cases at once.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Range) Minutes() int {
	return int(r.End - r.Start)
}

// Hours is the billable duration: the minute span rounded up to whole hours.
func (r Range) Hours() int {
	return (r.Minutes() + MinutesPerHour - 1) / MinutesPerHour
}

// HourLabels lists every whole hour "HH:00" whose hour-long cell overlaps r.
func (r Range) HourLabels() []string {
	var labels []string
	for h := r.Start.Hour(); h*MinutesPerHour < int(r.End); h++ {
		labels = append(labels, Clock(h*MinutesPerHour).String())
	}
	return labels
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
