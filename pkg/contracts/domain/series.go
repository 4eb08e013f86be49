package domain

import (
	"sort"
	"time"
)

// Point is a single dated observation. Dates are normalized to midnight UTC
// so that observations compare by calendar date regardless of any time-of-day
// component in the source cell.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered list of observations, ascending by date. Duplicate
// dates are allowed; they are distinct observations until aggregation.
type Series []Point

// Sort orders the series ascending by date in place. The sort is stable so
// same-date observations keep their source order.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})
}

// Span returns the first and last dates of a sorted series. ok is false for
// an empty series.
func (s Series) Span() (first, last time.Time, ok bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s[0].Date, s[len(s)-1].Date, true
}

// SpanDays returns the whole-day distance between the first and last dates
// of a sorted series. Empty and single-point series span zero days.
func (s Series) SpanDays() int {
	first, last, ok := s.Span()
	if !ok {
		return 0
	}
	return int(last.Sub(first).Hours() / 24)
}

// Total returns the sum of all values.
func (s Series) Total() float64 {
	var sum float64
	for _, p := range s {
		sum += p.Value
	}
	return sum
}

// FilterRange returns the observations falling inside r, bounds inclusive.
// A zero From or To leaves that side unbounded. The receiver is never
// mutated; the result is a fresh slice, so filtering is pure and applying
// the same range twice returns an equal series.
func (s Series) FilterRange(r DateRange) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// DateRange is an inclusive date interval. A zero bound means unbounded on
// that side; the zero DateRange contains every date.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// Contains reports whether d falls inside the range, bounds inclusive.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are unset.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Validate rejects a range whose From falls after To when both are set.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return ErrInvalidDateRange
	}
	return nil
}
