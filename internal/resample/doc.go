// Package resample buckets an observation series into calendar-true periods.
//
// A bucket is identified by the first calendar day of its period at midnight
// UTC: the observation's own date for daily, the most recent Monday for
// weekly, the first of the month, quarter (January, April, July, October),
// or year otherwise. Values are summed per bucket and periods with no
// observations are omitted rather than zero-filled, so aggregation always
// conserves the series total.
//
// The auto granularity is resolved here too: Resolve maps the span of the
// filtered series to a concrete resolution using the thresholds in
// AutoPolicy, chosen so that charts keep a readable number of buckets.
package resample
