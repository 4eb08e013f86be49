package explorer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/internal/infrastructure"
	"github.com/sarahsmason/Time-Series-Explorer/internal/shared/testutil"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *testutil.CaptureHandler) {
	t.Helper()
	logger, captured := testutil.NewTestLogger(t)
	return New(config.Default(), logger), captured
}

// salesTable has one unparseable value row and spans Jan 1 to Feb 20.
func salesTable() *domain.RawTable {
	return &domain.RawTable{
		SourceName: "sales.csv",
		Headers:    []string{"Region", "Date", "Sales"},
		Rows: [][]string{
			{"North", "2024-01-01", "$100.00"},
			{"South", "2024-01-02", "200"},
			{"North", "2024-01-15", "pending"},
			{"East", "2024-02-01", "50"},
			{"West", "2024-02-20", "150"},
		},
	}
}

func TestExplore(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "sales.csv", result.Source)
	assert.Equal(t, "Date", result.Selection.DateColumn)
	assert.Equal(t, "Sales", result.Selection.ValueColumn)
	assert.Equal(t, domain.BuildStats{RowsTotal: 5, RowsKept: 4, RowsDropped: 1}, result.Stats)

	// A 50-day span resolves auto to daily.
	assert.Equal(t, domain.GranularityAuto, result.Requested)
	assert.Equal(t, domain.GranularityDaily, result.Resolved)
	assert.Equal(t, 50, result.SpanDays)

	require.Len(t, result.Aggregate.Buckets, 4)
	assert.InDelta(t, 500, result.Aggregate.Total(), 1e-9)

	require.NotNil(t, result.KPIs)
	assert.InDelta(t, 500, result.KPIs.Total, 1e-9)
	assert.InDelta(t, 125, result.KPIs.Average, 1e-9)
	assert.Equal(t, 4, result.KPIs.Count)
	assert.True(t, result.KPIs.Max.Date.Equal(day(2024, 1, 2)))
	assert.True(t, result.KPIs.Min.Date.Equal(day(2024, 2, 1)))

	assert.Empty(t, result.KPIError)
	require.NotNil(t, result.Chart)
	assert.Equal(t, 4, result.Chart.PointCount())
	assert.True(t, result.HasData())
	assert.False(t, result.GeneratedAt.IsZero())
	assert.GreaterOrEqual(t, result.Duration, time.Duration(0))
}

func TestExploreMonthlyKeepsTwoAveragesApart(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
		Granularity: domain.GranularityMonthly,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.GranularityMonthly, result.Requested)
	assert.Equal(t, domain.GranularityMonthly, result.Resolved)

	require.Len(t, result.Aggregate.Buckets, 2)
	assert.InDelta(t, 300, result.Aggregate.Buckets[0].Value, 1e-9)
	assert.InDelta(t, 200, result.Aggregate.Buckets[1].Value, 1e-9)

	// The chart line averages buckets; the KPI averages observations.
	require.NotNil(t, result.Chart)
	assert.InDelta(t, 250, result.Chart.AverageLine, 1e-9)
	assert.InDelta(t, 125, result.KPIs.Average, 1e-9)
}

func TestExploreRangeFilter(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
		From: day(2024, 1, 1),
		To:   day(2024, 1, 31),
	})
	require.NoError(t, err)

	// Build stats cover the whole table; filtering happens afterwards.
	assert.Equal(t, 4, result.Stats.RowsKept)
	assert.Len(t, result.Filtered, 2)

	require.NotNil(t, result.KPIs)
	assert.Equal(t, 2, result.KPIs.Count)
	assert.InDelta(t, 300, result.KPIs.Total, 1e-9)

	// The report's range is observed, narrower than requested.
	assert.True(t, result.Range.To.Equal(day(2024, 1, 31)))
	assert.True(t, result.KPIs.Range.To.Equal(day(2024, 1, 2)))
	assert.Equal(t, 1, result.SpanDays)
}

func TestExploreEmptyRangeIsReportedNotFatal(t *testing.T) {
	svc, captured := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
		From: day(2030, 1, 1),
		To:   day(2030, 12, 31),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Nil(t, result.KPIs)
	assert.Equal(t, "no observations in the selected date range", result.KPIError)
	assert.Nil(t, result.Chart)
	assert.Empty(t, result.Aggregate.Buckets)
	assert.False(t, result.HasData())
	assert.True(t, captured.ContainsMessage("no observations in the selected range"))
}

func TestExploreTextValueOverrideEndsEmpty(t *testing.T) {
	// Pointing the value role at a text column is accepted, then every row
	// fails to parse and the run ends as an empty range, not a crash.
	svc, _ := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
		ValueColumn: "Region",
	})
	require.NoError(t, err)

	assert.True(t, result.Selection.ValueOverridden)
	assert.Equal(t, "Region", result.Selection.ValueColumn)
	assert.Equal(t, 5, result.Stats.RowsDropped)
	assert.Nil(t, result.KPIs)
	assert.NotEmpty(t, result.KPIError)
}

func TestExploreManualSelection(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
		DateColumn:  "Date",
		ValueColumn: "Sales",
	})
	require.NoError(t, err)

	assert.True(t, result.Selection.DateOverridden)
	assert.True(t, result.Selection.ValueOverridden)
	assert.Equal(t, 4, result.KPIs.Count)
}

func TestExploreFatalErrors(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("unknown override column", func(t *testing.T) {
		result, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
			DateColumn: "Datum",
		})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	})

	t.Run("no detectable date column", func(t *testing.T) {
		table := &domain.RawTable{
			SourceName: "notes.csv",
			Headers:    []string{"Who", "What"},
			Rows: [][]string{
				{"alice", "wrote"},
				{"bob", "reviewed"},
			},
		}
		_, err := svc.Explore(context.Background(), table, domain.ExploreRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoDateColumn)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
			From: day(2024, 3, 1),
			To:   day(2024, 1, 1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("unrecognized granularity", func(t *testing.T) {
		_, err := svc.Explore(context.Background(), salesTable(), domain.ExploreRequest{
			Granularity: domain.Granularity("hourly"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
	})
}

func TestExploreKeepsRunIDFromContext(t *testing.T) {
	svc, _ := newTestService(t)

	ctx := infrastructure.WithRunID(context.Background(), "fixed-run-id")

	result, err := svc.Explore(ctx, salesTable(), domain.ExploreRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fixed-run-id", result.RunID)
}
