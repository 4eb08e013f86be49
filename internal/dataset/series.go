package dataset

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// Builder converts raw table rows into a typed, sorted series
type Builder struct {
	formats []string
	logger  *slog.Logger
}

// NewBuilder creates a series builder using the given date formats
func NewBuilder(dateFormats []string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		formats: dateFormats,
		logger:  logger,
	}
}

// Build parses the selected date and value cells of every row. Rows where
// either cell fails to parse are dropped and counted, never fatal; the
// result is sorted ascending by date. An empty result is valid here and is
// judged by the KPI stage, not the builder.
func (b *Builder) Build(ctx context.Context, table *domain.RawTable, sel domain.ColumnSelection) (domain.Series, domain.BuildStats, error) {
	stats := domain.BuildStats{RowsTotal: table.RowCount()}

	cols := table.ColumnCount()
	if sel.DateIndex < 0 || sel.DateIndex >= cols || sel.ValueIndex < 0 || sel.ValueIndex >= cols {
		return nil, stats, apperrors.NewValidationError(
			fmt.Sprintf("column selection (%d, %d) is out of range for %d columns",
				sel.DateIndex, sel.ValueIndex, cols), nil)
	}

	series := make(domain.Series, 0, table.RowCount())
	for i, row := range table.Rows {
		dateCell := cell(row, sel.DateIndex)
		valueCell := cell(row, sel.ValueIndex)

		date, dateOK := ParseDate(dateCell, b.formats)
		value, valueOK := ParseNumber(valueCell)
		if !dateOK || !valueOK {
			stats.RowsDropped++
			b.logger.DebugContext(ctx, "dropped unparseable row",
				slog.Int("row", i),
				slog.Bool("date_ok", dateOK),
				slog.Bool("value_ok", valueOK),
				slog.String("date_cell", dateCell),
				slog.String("value_cell", valueCell))
			continue
		}

		series = append(series, domain.Point{Date: date, Value: value})
	}

	series.Sort()
	stats.RowsKept = len(series)

	if stats.RowsDropped > 0 {
		b.logger.WarnContext(ctx, "dropped rows during series build",
			slog.Int("dropped", stats.RowsDropped),
			slog.Int("kept", stats.RowsKept),
			slog.Int("total", stats.RowsTotal))
	} else {
		b.logger.DebugContext(ctx, "series built",
			slog.Int("rows", stats.RowsKept))
	}

	return series, stats, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
