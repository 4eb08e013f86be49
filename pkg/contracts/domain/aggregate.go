package domain

import "time"

// Bucket is one aggregated period. Start identifies the period (its first
// calendar day at midnight UTC), Value is the sum of observations falling in
// it, and Count is how many observations contributed. Buckets with no
// observations are never emitted.
type Bucket struct {
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
	Count int       `json:"count"`
}

// Aggregate is a bucketed series at a concrete granularity, buckets in
// chronological order.
type Aggregate struct {
	Granularity Granularity `json:"granularity"`
	Buckets     []Bucket    `json:"buckets"`
}

// Total returns the sum of all bucket values. Aggregation conserves sums,
// so this equals the total of the input series.
func (a Aggregate) Total() float64 {
	var sum float64
	for _, b := range a.Buckets {
		sum += b.Value
	}
	return sum
}

// MeanBucketValue returns the average bucket value, 0 for no buckets. This
// is the chart reference line, a different number from the per-observation
// average in KPIReport.
func (a Aggregate) MeanBucketValue() float64 {
	if len(a.Buckets) == 0 {
		return 0
	}
	return a.Total() / float64(len(a.Buckets))
}

// Observations returns the total observation count across buckets.
func (a Aggregate) Observations() int {
	var n int
	for _, b := range a.Buckets {
		n += b.Count
	}
	return n
}
