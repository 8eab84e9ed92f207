package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", want: 1440},
		{in: "9:30", wantErr: true},
		{in: "09:3", wantErr: true},
		{in: "09-30", wantErr: true},
		{in: "24:01", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestParseRange_RejectsEmpty(t *testing.T) {
	_, err := ParseRange("10:00", "10:00")
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = ParseRange("11:00", "10:00")
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestRange_OverlapsIsSymmetric(t *testing.T) {
	ranges := []Range{
		{Start: MustParseClock("08:00"), End: MustParseClock("09:00")},
		{Start: MustParseClock("08:30"), End: MustParseClock("10:00")},
		{Start: MustParseClock("09:00"), End: MustParseClock("11:00")},
		{Start: MustParseClock("10:00"), End: MustParseClock("12:00")},
		{Start: MustParseClock("09:30"), End: MustParseClock("09:45")},
		{Start: MustParseClock("07:00"), End: MustParseClock("13:00")},
	}

	for _, a := range ranges {
		assert.True(t, a.Overlaps(a), "range %s must overlap itself", a)
		for _, b := range ranges {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%s vs %s", a, b)
		}
	}
}

func TestRange_OverlapsCoversNaiveCases(t *testing.T) {
	existing := Range{Start: MustParseClock("09:00"), End: MustParseClock("11:00")}

	naive := func(c Range) bool {
		startsDuring := existing.Start <= c.Start && existing.End > c.Start
		endsDuring := existing.Start < c.End && existing.End >= c.End
		contains := existing.Start >= c.Start && existing.End <= c.End
		return startsDuring || endsDuring || contains
	}

	for s := Clock(6 * 60); s < Clock(14*60); s += 15 {
		for e := s + 15; e <= Clock(14*60); e += 15 {
			c := Range{Start: s, End: e}
			assert.Equal(t, naive(c), c.Overlaps(existing), "candidate %s", c)
		}
	}
}

func TestRange_AdjacentDoesNotOverlap(t *testing.T) {
	a := Range{Start: MustParseClock("09:00"), End: MustParseClock("10:00")}
	b := Range{Start: MustParseClock("10:00"), End: MustParseClock("11:00")}
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestRange_Hours(t *testing.T) {
	r, err := ParseRange("09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Hours())

	r, err = ParseRange("09:00", "09:30")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Hours())

	r, err = ParseRange("09:00", "10:01")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Hours())
}

func TestRange_HourLabels(t *testing.T) {
	r, _ := ParseRange("09:00", "11:00")
	assert.Equal(t, []string{"09:00", "10:00"}, r.HourLabels())

	r, _ = ParseRange("09:00", "09:30")
	assert.Equal(t, []string{"09:00"}, r.HourLabels())

	r, _ = ParseRange("09:30", "11:15")
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, r.HourLabels())

	r, _ = ParseRange("23:00", "24:00")
	assert.Equal(t, []string{"23:00"}, r.HourLabels())
}

func TestHours_Labels(t *testing.T) {
	h, err := ParseHours("08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00"}, h.Labels())
}
