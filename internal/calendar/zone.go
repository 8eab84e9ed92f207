// Package calendar maps instants onto civil days of a fixed-offset reference
// zone and models wall-clock ranges inside those days.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Day is a civil date. It is a plain comparable value; two Days are the same
// day iff they are ==.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

// DayOf builds a Day from a timestamp's own calendar fields, ignoring zone
// conversion. Use Zone.ToDay for instants.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Dom: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the civil day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, time.UTC)
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Before(other Day) bool { return d.Time().Before(other.Time()) }
func (d Day) After(other Day) bool  { return d.Time().After(other.Time()) }
func (d Day) IsZero() bool          { return d == Day{} }

func (d Day) String() string {
	return d.Time().Format(DateLayout)
}

// Zone is a fixed UTC offset reference zone. It deliberately carries no DST
// rules; re-derive before pointing it at a zone that has them.
type Zone struct {
	offset time.Duration
	loc    *time.Location
}

func NewZone(offset time.Duration) Zone {
	return Zone{
		offset: offset,
		loc:    time.FixedZone(fmt.Sprintf("UTC%+03d", int(offset.Hours())), int(offset.Seconds())),
	}
}

// WIB is UTC+7, the zone every field is operated in by default.
var WIB = NewZone(7 * time.Hour)

func (z Zone) Location() *time.Location { return z.loc }
func (z Zone) Offset() time.Duration    { return z.offset }

// ToDay returns the civil day t falls on in the zone.
func (z Zone) ToDay(t time.Time) Day {
	return DayOf(t.In(z.loc))
}

// StartOfDay is the UTC instant of 00:00:00.000 local on t's civil day.
func (z Zone) StartOfDay(t time.Time) time.Time {
	return z.DayStart(z.ToDay(t))
}

// EndOfDay is the UTC instant of 23:59:59.999 local on t's civil day.
func (z Zone) EndOfDay(t time.Time) time.Time {
	return z.DayEnd(z.ToDay(t))
}

func (z Zone) DayStart(d Day) time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, z.loc).UTC()
}

func (z Zone) DayEnd(d Day) time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 23, 59, 59, int(999*time.Millisecond), z.loc).UTC()
}

// Combine returns the absolute instant of a wall-clock time on a civil day.
func (z Zone) Combine(d Day, c Clock) time.Time {
	return z.DayStart(d).Add(time.Duration(c) * time.Minute)
}

// ClockOf returns the local wall-clock minute of t, truncating seconds.
func (z Zone) ClockOf(t time.Time) Clock {
	l := t.In(z.loc)
	return Clock(l.Hour()*MinutesPerHour + l.Minute())
}

// Period is an inclusive range of civil days.
type Period struct {
	From Day
	To   Day
}

// Today, Week (Monday first), Month and Year are the report presets.
func (z Zone) Today(now time.Time) Period {
	d := z.ToDay(now)
	return Period{From: d, To: d}
}

func (z Zone) Week(now time.Time) Period {
	d := z.ToDay(now)
	diff := (int(d.Time().Weekday()) - int(time.Monday) + 7) % 7
	start := d.AddDays(-diff)
	return Period{From: start, To: start.AddDays(6)}
}

func (z Zone) Month(now time.Time) Period {
	d := z.ToDay(now)
	start := Day{Year: d.Year, Month: d.Month, Dom: 1}
	return Period{From: start, To: DayOf(start.Time().AddDate(0, 1, -1))}
}

func (z Zone) Year(now time.Time) Period {
	d := z.ToDay(now)
	return Period{From: Day{Year: d.Year, Month: time.January, Dom: 1}, To: Day{Year: d.Year, Month: time.December, Dom: 31}}
}

// Preset resolves a named preset, falling back to the current month.
func (z Zone) Preset(name string, now time.Time) Period {
	switch name {
	case "today":
		return z.Today(now)
	case "week":
		return z.Week(now)
	case "year":
		return z.Year(now)
	default:
		return z.Month(now)
	}
}
