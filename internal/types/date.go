package types

import "time"

// All engine date math is date-only: times are normalized to midnight UTC and
// ranges are inclusive on both ends, so a one-day range has Start == End and
// counts as a single day.

// StartOfDay normalizes a time to midnight UTC of the same calendar date.
func StartOfDay(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given calendar month.
// Day 0 of the following month is the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last day of the month containing t, at midnight UTC.
func EndOfMonth(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// BeginningOfMonth returns the first day of the month containing t, at midnight UTC.
func BeginningOfMonth(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays returns the number of calendar days in [start, end] counting
// both endpoints. Returns 0 when end precedes start.
func InclusiveDays(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DaysBetween returns the number of whole days from start up to but not
// including end. Returns 0 when end is on or before start.
func DaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if !e.After(s) {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}

// AddClampedDate adds the given years, months and days to t, clamping the day
// of month to the last valid day of the target month. Unlike time.AddDate,
// adding one month to Jan 31 lands on Feb 28/29 instead of overflowing into
// March. This matters for billing anchors near month end.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()

	newY := y + years
	newM := time.Month(int(m) + months)
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := DaysInMonth(newY, newM)
	newD := d
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

// DateRange is an inclusive-inclusive day range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a normalized range from two dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: StartOfDay(start), End: StartOfDay(end)}
}

// IsValid reports whether the range is well formed (start on or before end).
func (r DateRange) IsValid() bool {
	return !r.End.Before(r.Start)
}

// Days returns the inclusive day count of the range.
func (r DateRange) Days() int {
	return InclusiveDays(r.Start, r.End)
}

// Contains reports whether the given date falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := StartOfDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Intersect returns the overlap of two ranges. The second return value is
// false when the ranges do not overlap.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

// Equal reports whether two ranges cover exactly the same days.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}
