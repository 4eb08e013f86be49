package domain

import "time"

// KPIReport summarizes the filtered raw observations of a run. All figures
// come from individual observations, never from aggregated buckets, so the
// average is a per-observation mean and the extremes carry the dates they
// occurred on. Ties on Max or Min resolve to the earliest date.
type KPIReport struct {
	Total   float64   `json:"total"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
	Max     Point     `json:"max"`
	Min     Point     `json:"min"`
	Range   DateRange `json:"range"`
}

// ObservedRange returns the first and last observation dates covered by the
// report, which can be narrower than the requested filter range.
func (r KPIReport) ObservedRange() (first, last time.Time) {
	return r.Range.From, r.Range.To
}
