package resample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		g    domain.Granularity
		want time.Time
	}{
		{name: "daily is identity", in: day(2024, 3, 15), g: domain.GranularityDaily, want: day(2024, 3, 15)},
		{name: "weekly from wednesday", in: day(2024, 1, 10), g: domain.GranularityWeekly, want: day(2024, 1, 8)},
		{name: "weekly from monday", in: day(2024, 1, 8), g: domain.GranularityWeekly, want: day(2024, 1, 8)},
		{name: "weekly from sunday", in: day(2024, 1, 7), g: domain.GranularityWeekly, want: day(2024, 1, 1)},
		{name: "weekly across year boundary", in: day(2025, 1, 1), g: domain.GranularityWeekly, want: day(2024, 12, 30)},
		{name: "monthly", in: day(2024, 2, 15), g: domain.GranularityMonthly, want: day(2024, 2, 1)},
		{name: "quarterly q1", in: day(2024, 3, 31), g: domain.GranularityQuarterly, want: day(2024, 1, 1)},
		{name: "quarterly q2 first day", in: day(2024, 4, 1), g: domain.GranularityQuarterly, want: day(2024, 4, 1)},
		{name: "quarterly q3", in: day(2024, 8, 20), g: domain.GranularityQuarterly, want: day(2024, 7, 1)},
		{name: "quarterly q4", in: day(2024, 12, 31), g: domain.GranularityQuarterly, want: day(2024, 10, 1)},
		{name: "yearly", in: day(2024, 6, 15), g: domain.GranularityYearly, want: day(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodStart(tt.in, tt.g)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestAggregateMonthly(t *testing.T) {
	series := domain.Series{
		{Date: day(2024, 1, 1), Value: 100},
		{Date: day(2024, 1, 2), Value: 200},
		{Date: day(2024, 2, 1), Value: 50},
	}

	agg, err := Aggregate(series, domain.GranularityMonthly)
	require.NoError(t, err)

	assert.Equal(t, domain.GranularityMonthly, agg.Granularity)
	require.Len(t, agg.Buckets, 2)

	assert.True(t, agg.Buckets[0].Start.Equal(day(2024, 1, 1)))
	assert.InDelta(t, 300, agg.Buckets[0].Value, 1e-9)
	assert.Equal(t, 2, agg.Buckets[0].Count)

	assert.True(t, agg.Buckets[1].Start.Equal(day(2024, 2, 1)))
	assert.InDelta(t, 50, agg.Buckets[1].Value, 1e-9)
	assert.Equal(t, 1, agg.Buckets[1].Count)
}

func TestAggregateOmitsEmptyPeriods(t *testing.T) {
	// January and March with nothing in February: two buckets, no zero-fill.
	series := domain.Series{
		{Date: day(2024, 1, 15), Value: 10},
		{Date: day(2024, 3, 15), Value: 20},
	}

	agg, err := Aggregate(series, domain.GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, agg.Buckets, 2)
	assert.True(t, agg.Buckets[0].Start.Equal(day(2024, 1, 1)))
	assert.True(t, agg.Buckets[1].Start.Equal(day(2024, 3, 1)))
}

func TestAggregateDailySumsDuplicateDates(t *testing.T) {
	series := domain.Series{
		{Date: day(2024, 5, 1), Value: 1.5},
		{Date: day(2024, 5, 1), Value: 2.5},
		{Date: day(2024, 5, 2), Value: 3},
	}

	agg, err := Aggregate(series, domain.GranularityDaily)
	require.NoError(t, err)
	require.Len(t, agg.Buckets, 2)
	assert.InDelta(t, 4, agg.Buckets[0].Value, 1e-9)
	assert.Equal(t, 2, agg.Buckets[0].Count)
}

func TestAggregateWeeklyAcrossYearBoundary(t *testing.T) {
	// Monday 2024-12-30 and Thursday 2025-01-02 share a week.
	series := domain.Series{
		{Date: day(2024, 12, 30), Value: 5},
		{Date: day(2025, 1, 2), Value: 7},
	}

	agg, err := Aggregate(series, domain.GranularityWeekly)
	require.NoError(t, err)
	require.Len(t, agg.Buckets, 1)
	assert.True(t, agg.Buckets[0].Start.Equal(day(2024, 12, 30)))
	assert.InDelta(t, 12, agg.Buckets[0].Value, 1e-9)
}

func TestAggregateConservesTotals(t *testing.T) {
	series := domain.Series{
		{Date: day(2023, 11, 3), Value: 12.75},
		{Date: day(2024, 1, 1), Value: -3.25},
		{Date: day(2024, 1, 31), Value: 40},
		{Date: day(2024, 6, 15), Value: 0.5},
		{Date: day(2025, 2, 28), Value: 99.99},
	}

	for _, g := range domain.Granularities {
		agg, err := Aggregate(series, g)
		require.NoError(t, err)
		assert.InDelta(t, series.Total(), agg.Total(), 1e-9, "granularity %s", g)
		assert.Equal(t, len(series), agg.Observations(), "granularity %s", g)
	}
}

func TestAggregateEmptySeries(t *testing.T) {
	agg, err := Aggregate(nil, domain.GranularityMonthly)
	require.NoError(t, err)
	assert.Empty(t, agg.Buckets)
	assert.Zero(t, agg.MeanBucketValue())
}

func TestAggregateRejectsAuto(t *testing.T) {
	_, err := Aggregate(domain.Series{{Date: day(2024, 1, 1), Value: 1}}, domain.GranularityAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func spanSeries(days int) domain.Series {
	start := day(2020, 1, 1)
	return domain.Series{
		{Date: start, Value: 1},
		{Date: start.AddDate(0, 0, days), Value: 1},
	}
}

func TestResolve(t *testing.T) {
	policy := DefaultAutoPolicy()

	tests := []struct {
		name   string
		g      domain.Granularity
		series domain.Series
		want   domain.Granularity
	}{
		{name: "explicit passes through", g: domain.GranularityWeekly, series: spanSeries(5000), want: domain.GranularityWeekly},
		{name: "empty series resolves daily", g: domain.GranularityAuto, series: nil, want: domain.GranularityDaily},
		{name: "single point resolves daily", g: domain.GranularityAuto, series: spanSeries(0), want: domain.GranularityDaily},
		{name: "at daily threshold", g: domain.GranularityAuto, series: spanSeries(90), want: domain.GranularityDaily},
		{name: "past daily threshold", g: domain.GranularityAuto, series: spanSeries(91), want: domain.GranularityWeekly},
		{name: "at weekly threshold", g: domain.GranularityAuto, series: spanSeries(730), want: domain.GranularityWeekly},
		{name: "past weekly threshold", g: domain.GranularityAuto, series: spanSeries(731), want: domain.GranularityMonthly},
		{name: "at monthly threshold", g: domain.GranularityAuto, series: spanSeries(3650), want: domain.GranularityMonthly},
		{name: "past monthly threshold", g: domain.GranularityAuto, series: spanSeries(3651), want: domain.GranularityQuarterly},
		{name: "at quarterly threshold", g: domain.GranularityAuto, series: spanSeries(14600), want: domain.GranularityQuarterly},
		{name: "past quarterly threshold", g: domain.GranularityAuto, series: spanSeries(14601), want: domain.GranularityYearly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.g, tt.series, policy))
		})
	}
}

func TestResolveIsMonotone(t *testing.T) {
	policy := DefaultAutoPolicy()

	rank := map[domain.Granularity]int{}
	for i, g := range domain.Granularities {
		rank[g] = i
	}

	prev := 0
	for span := 0; span <= 16000; span += 25 {
		g := Resolve(domain.GranularityAuto, spanSeries(span), policy)
		r, ok := rank[g]
		require.True(t, ok, "span %d resolved to %q", span, g)
		assert.GreaterOrEqual(t, r, prev, "span %d made granularity finer", span)
		prev = r
	}
}

func TestAutoPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultAutoPolicy().Validate())

	tests := []struct {
		name   string
		policy AutoPolicy
	}{
		{name: "zero daily", policy: AutoPolicy{DailyMaxDays: 0, WeeklyMaxDays: 1, MonthlyMaxDays: 2, QuarterlyMaxDays: 3}},
		{name: "equal adjacent thresholds", policy: AutoPolicy{DailyMaxDays: 90, WeeklyMaxDays: 90, MonthlyMaxDays: 3650, QuarterlyMaxDays: 14600}},
		{name: "descending", policy: AutoPolicy{DailyMaxDays: 90, WeeklyMaxDays: 730, MonthlyMaxDays: 600, QuarterlyMaxDays: 14600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.policy.Validate())
		})
	}
}
