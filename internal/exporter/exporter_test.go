package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	"github.com/sarahsmason/Time-Series-Explorer/internal/format"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newTestWriter(t *testing.T, includeBOM bool) *Writer {
	t.Helper()
	cfg := config.ExportConfig{OutputDir: t.TempDir(), IncludeBOM: includeBOM}
	return NewWriter(cfg, format.DefaultPolicy(), nil)
}

// readCSV parses an exported file, verifying the BOM prefix on the way.
func readCSV(t *testing.T, path string, wantBOM bool) [][]string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	hasBOM := bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	assert.Equal(t, wantBOM, hasBOM)
	if hasBOM {
		raw = raw[3:]
	}

	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteAggregateCSV(t *testing.T) {
	w := newTestWriter(t, true)

	agg := domain.Aggregate{
		Granularity: domain.GranularityMonthly,
		Buckets: []domain.Bucket{
			{Start: day(2024, 1, 1), Value: 1234.5, Count: 2},
			{Start: day(2024, 2, 1), Value: 50, Count: 1},
		},
	}

	path, err := w.WriteAggregateCSV("aggregate.csv", agg)
	require.NoError(t, err)

	rows := readCSV(t, path, true)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"period", "start_date", "total", "observations"}, rows[0])
	assert.Equal(t, []string{"Jan 2024", "2024-01-01", "1234.5", "2"}, rows[1])
	assert.Equal(t, []string{"Feb 2024", "2024-02-01", "50", "1"}, rows[2])
}

func TestWriteAggregateCSVWithoutBOM(t *testing.T) {
	w := newTestWriter(t, false)

	agg := domain.Aggregate{
		Granularity: domain.GranularityDaily,
		Buckets:     []domain.Bucket{{Start: day(2024, 1, 1), Value: 1, Count: 1}},
	}

	path, err := w.WriteAggregateCSV("aggregate.csv", agg)
	require.NoError(t, err)

	rows := readCSV(t, path, false)
	require.Len(t, rows, 2)
}

func TestWriteFilteredCSV(t *testing.T) {
	w := newTestWriter(t, true)

	series := domain.Series{
		{Date: day(2024, 1, 1), Value: 100},
		{Date: day(2024, 1, 2), Value: 1234.56},
	}
	sel := domain.ColumnSelection{DateColumn: "Order Date", ValueColumn: "Sales"}

	path, err := w.WriteFilteredCSV("filtered.csv", series, sel)
	require.NoError(t, err)

	rows := readCSV(t, path, true)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Order Date", "Sales"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "100"}, rows[1])
	assert.Equal(t, []string{"2024-01-02", "1234.56"}, rows[2])
}

func TestWriteResultJSON(t *testing.T) {
	w := newTestWriter(t, true)

	result := &domain.ExploreResult{
		RunID:    "run-123",
		Source:   "sales.csv",
		Resolved: domain.GranularityMonthly,
		Aggregate: domain.Aggregate{
			Granularity: domain.GranularityMonthly,
			Buckets:     []domain.Bucket{{Start: day(2024, 1, 1), Value: 300, Count: 2}},
		},
		KPIs:        &domain.KPIReport{Total: 300, Average: 150, Count: 2},
		GeneratedAt: day(2024, 3, 1),
	}

	path, err := w.WriteResultJSON("result.json", result)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"run_id\": \"run-123\"")

	var decoded domain.ExploreResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result.RunID, decoded.RunID)
	assert.Equal(t, result.Resolved, decoded.Resolved)
	require.NotNil(t, decoded.KPIs)
	assert.InDelta(t, 300, decoded.KPIs.Total, 1e-9)
	require.Len(t, decoded.Aggregate.Buckets, 1)
	assert.True(t, decoded.Aggregate.Buckets[0].Start.Equal(day(2024, 1, 1)))
}

func TestWriterCreatesNestedDirectories(t *testing.T) {
	w := newTestWriter(t, true)

	path, err := w.WriteAggregateCSV(filepath.Join("runs", "march", "aggregate.csv"), domain.Aggregate{
		Granularity: domain.GranularityDaily,
	})
	require.NoError(t, err)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.False(t, info.IsDir())
}

func TestWriterAbsolutePathBypassesOutputDir(t *testing.T) {
	w := newTestWriter(t, true)

	target := filepath.Join(t.TempDir(), "elsewhere.csv")
	path, err := w.WriteAggregateCSV(target, domain.Aggregate{Granularity: domain.GranularityDaily})
	require.NoError(t, err)
	assert.Equal(t, target, path)
}
