package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2025, time.January, 31},
		{"february_non_leap", 2025, time.February, 28},
		{"february_leap", 2024, time.February, 29},
		{"february_century_non_leap", 1900, time.February, 28},
		{"february_400_leap", 2000, time.February, 29},
		{"april", 2025, time.April, 30},
		{"december", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same_day", date(2025, 5, 20), date(2025, 5, 20), 1},
		{"full_month", date(2025, 5, 1), date(2025, 5, 31), 31},
		{"across_months", date(2025, 5, 20), date(2025, 7, 24), 66},
		{"full_year", date(2025, 1, 1), date(2025, 12, 31), 365},
		{"leap_year", date(2024, 1, 1), date(2024, 12, 31), 366},
		{"end_before_start", date(2025, 5, 2), date(2025, 5, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InclusiveDays(tt.start, tt.end))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	// Jan 1 to Apr 1 spans 31+28+31 whole days.
	assert.Equal(t, 90, DaysBetween(date(2025, 1, 1), date(2025, 4, 1)))
	assert.Equal(t, 0, DaysBetween(date(2025, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, 0, DaysBetween(date(2025, 1, 2), date(2025, 1, 1)))
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{"simple_month", date(2025, 1, 15), 0, 1, 0, date(2025, 2, 15)},
		{"clamp_to_february", date(2025, 1, 31), 0, 1, 0, date(2025, 2, 28)},
		{"clamp_to_leap_february", date(2024, 1, 31), 0, 1, 0, date(2024, 2, 29)},
		{"december_rollover", date(2025, 11, 30), 0, 2, 0, date(2026, 1, 30)},
		{"year_from_leap_day", date(2024, 2, 29), 1, 0, 0, date(2025, 2, 28)},
		{"minus_one_day", date(2025, 1, 1), 1, 0, -1, date(2025, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddClampedDate(tt.start, tt.years, tt.months, tt.days))
		})
	}
}

func TestDateRangeIntersect(t *testing.T) {
	tests := []struct {
		name    string
		a       DateRange
		b       DateRange
		want    DateRange
		overlap bool
	}{
		{
			name:    "partial_overlap",
			a:       NewDateRange(date(2025, 5, 20), date(2025, 7, 24)),
			b:       NewDateRange(date(2025, 6, 1), date(2025, 6, 30)),
			want:    NewDateRange(date(2025, 6, 1), date(2025, 6, 30)),
			overlap: true,
		},
		{
			name:    "identical",
			a:       NewDateRange(date(2025, 1, 1), date(2025, 1, 31)),
			b:       NewDateRange(date(2025, 1, 1), date(2025, 1, 31)),
			want:    NewDateRange(date(2025, 1, 1), date(2025, 1, 31)),
			overlap: true,
		},
		{
			name:    "single_shared_day",
			a:       NewDateRange(date(2025, 1, 1), date(2025, 1, 31)),
			b:       NewDateRange(date(2025, 1, 31), date(2025, 2, 28)),
			want:    NewDateRange(date(2025, 1, 31), date(2025, 1, 31)),
			overlap: true,
		},
		{
			name:    "disjoint",
			a:       NewDateRange(date(2025, 1, 1), date(2025, 1, 31)),
			b:       NewDateRange(date(2025, 2, 1), date(2025, 2, 28)),
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.overlap, ok)
			if tt.overlap {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a))
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, 59, NewDateRange(date(2025, 2, 1), date(2025, 3, 31)).Days())
	assert.Equal(t, 1, NewDateRange(date(2025, 2, 1), date(2025, 2, 1)).Days())
}
