package resample

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// PeriodStart returns the first calendar day, at midnight UTC, of the period
// containing t at the given concrete granularity. Weeks start on Monday;
// quarters on the first of January, April, July, and October. Auto and any
// unrecognized granularity fall back to daily, since daily is the identity
// bucketing.
func PeriodStart(t time.Time, g domain.Granularity) time.Time {
	y, m, d := t.Date()

	switch g {
	case domain.GranularityWeekly:
		back := (int(t.Weekday()) + 6) % 7
		// time.Date normalizes day underflow across month and year edges.
		return time.Date(y, m, d-back, 0, 0, 0, 0, time.UTC)
	case domain.GranularityMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityQuarterly:
		first := time.Month(3*((int(m)-1)/3) + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Aggregate buckets series at a concrete granularity. Each observation lands
// in the period containing its date; bucket values are sums and each bucket
// counts its observations. Buckets come back in chronological order and
// periods with no observations are omitted. Passing auto is a programming
// error: resolve it with Resolve first.
func Aggregate(series domain.Series, g domain.Granularity) (domain.Aggregate, error) {
	if !g.IsConcrete() {
		return domain.Aggregate{}, apperrors.NewValidationError(
			fmt.Sprintf("aggregation requires a concrete granularity, got %q", g),
			domain.ErrInvalidGranularity)
	}

	byStart := make(map[time.Time]*domain.Bucket)
	for _, p := range series {
		start := PeriodStart(p.Date, g)
		b, ok := byStart[start]
		if !ok {
			b = &domain.Bucket{Start: start}
			byStart[start] = b
		}
		b.Value += p.Value
		b.Count++
	}

	buckets := make([]domain.Bucket, 0, len(byStart))
	for _, b := range byStart {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})

	return domain.Aggregate{Granularity: g, Buckets: buckets}, nil
}

// AutoPolicy holds the span thresholds, in whole days, that steer automatic
// granularity selection. Each field is the largest span still served by that
// resolution; spans beyond QuarterlyMaxDays aggregate yearly.
type AutoPolicy struct {
	DailyMaxDays     int
	WeeklyMaxDays    int
	MonthlyMaxDays   int
	QuarterlyMaxDays int
}

// DefaultAutoPolicy covers roughly a quarter of daily bars, two years of
// weekly, ten years of monthly, and forty years of quarterly.
func DefaultAutoPolicy() AutoPolicy {
	return AutoPolicy{
		DailyMaxDays:     90,
		WeeklyMaxDays:    730,
		MonthlyMaxDays:   3650,
		QuarterlyMaxDays: 14600,
	}
}

// Validate enforces positive, strictly ascending thresholds. Ascending order
// is what keeps selection monotone: a longer span never resolves to a finer
// granularity.
func (p AutoPolicy) Validate() error {
	if p.DailyMaxDays <= 0 ||
		p.WeeklyMaxDays <= p.DailyMaxDays ||
		p.MonthlyMaxDays <= p.WeeklyMaxDays ||
		p.QuarterlyMaxDays <= p.MonthlyMaxDays {
		return apperrors.NewValidationError(
			"auto granularity thresholds must be positive and strictly ascending", nil)
	}
	return nil
}

// Resolve turns a requested granularity into a concrete one. Anything but
// auto passes through unchanged. Auto resolves from the whole-day span of
// the (filtered, sorted) series; empty and single-point series span zero
// days and resolve to daily.
func Resolve(g domain.Granularity, series domain.Series, policy AutoPolicy) domain.Granularity {
	if g != domain.GranularityAuto {
		return g
	}

	span := series.SpanDays()
	switch {
	case span <= policy.DailyMaxDays:
		return domain.GranularityDaily
	case span <= policy.WeeklyMaxDays:
		return domain.GranularityWeekly
	case span <= policy.MonthlyMaxDays:
		return domain.GranularityMonthly
	case span <= policy.QuarterlyMaxDays:
		return domain.GranularityQuarterly
	default:
		return domain.GranularityYearly
	}
}
