package calendar

// Hours is the bookable hour grid of a field: one label per whole hour in
// [Open, Close).
type Hours struct {
	Open  Clock
	Close Clock
}

func ParseHours(open, close string) (Hours, error) {
	r, err := ParseRange(open, close)
	if err != nil {
		return Hours{}, err
	}
	return Hours{Open: r.Start, Close: r.End}, nil
}

func (h Hours) Labels() []string {
	return Range{Start: h.Open, End: h.Close}.HourLabels()
}
