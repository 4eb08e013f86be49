package dataset

import (
	"context"
	"log/slog"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// DefaultThreshold is the parse fraction a column must strictly exceed to
// qualify for a role.
const DefaultThreshold = 0.5

// Detector finds the date and value columns of a raw table
type Detector struct {
	threshold float64
	formats   []string
	logger    *slog.Logger
}

// NewDetector creates a detector. threshold outside (0,1) falls back to
// DefaultThreshold; a nil logger falls back to slog.Default().
func NewDetector(threshold float64, dateFormats []string, logger *slog.Logger) *Detector {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		threshold: threshold,
		formats:   dateFormats,
		logger:    logger,
	}
}

// Detect resolves the date and value columns of table, honoring overrides.
//
// Overridden names are validated for existence only and used verbatim; a
// bad manual choice surfaces downstream as empty results, not here. For
// automatic roles every column is scanned: a column qualifies when the
// fraction of its cells that parse (dates for the date role, numbers for
// the value role) strictly exceeds the threshold, counted against all rows.
// The best fraction wins, ties go to the leftmost column, and the chosen
// date column is excluded from numeric candidates.
func (d *Detector) Detect(ctx context.Context, table *domain.RawTable, ov domain.Overrides) (domain.ColumnSelection, error) {
	var sel domain.ColumnSelection

	dateIdx, valueIdx := -1, -1
	if ov.DateColumn != "" {
		dateIdx = table.ColumnIndex(ov.DateColumn)
		if dateIdx < 0 {
			return sel, apperrors.NewInvalidSelectionError("date", ov.DateColumn, table.Headers)
		}
		sel.DateOverridden = true
	}
	if ov.ValueColumn != "" {
		valueIdx = table.ColumnIndex(ov.ValueColumn)
		if valueIdx < 0 {
			return sel, apperrors.NewInvalidSelectionError("value", ov.ValueColumn, table.Headers)
		}
		sel.ValueOverridden = true
	}

	total := table.RowCount()

	var dateCounts, numberCounts []int
	if dateIdx < 0 || valueIdx < 0 {
		dateCounts, numberCounts = d.countParses(table)
	}

	if dateIdx < 0 {
		best := -1
		bestCount := 0
		for j := 0; j < table.ColumnCount(); j++ {
			if j == valueIdx {
				// The caller already claimed this column for values.
				continue
			}
			count := dateCounts[j]
			if !d.qualifies(count, total) {
				continue
			}
			if count > bestCount {
				best, bestCount = j, count
			}
		}
		if best < 0 {
			d.logger.ErrorContext(ctx, "no date column detected",
				slog.Int("columns", table.ColumnCount()),
				slog.Int("rows", total),
				slog.Float64("threshold", d.threshold))
			return sel, apperrors.NewNoDateColumnError(table.ColumnCount(), total)
		}
		dateIdx = best
		sel.DateParsed = bestCount
		sel.DateTotal = total
	}

	if valueIdx < 0 {
		best := -1
		bestCount := 0
		for j := 0; j < table.ColumnCount(); j++ {
			if j == dateIdx {
				continue
			}
			count := numberCounts[j]
			if !d.qualifies(count, total) {
				continue
			}
			if count > bestCount {
				best, bestCount = j, count
			}
		}
		if best < 0 {
			d.logger.ErrorContext(ctx, "no numeric column detected",
				slog.Int("columns", table.ColumnCount()),
				slog.Int("rows", total),
				slog.Float64("threshold", d.threshold))
			return sel, apperrors.NewNoNumericColumnError(table.ColumnCount(), total)
		}
		valueIdx = best
		sel.ValueParsed = bestCount
		sel.ValueTotal = total
	}

	sel.DateIndex = dateIdx
	sel.DateColumn = table.Headers[dateIdx]
	sel.ValueIndex = valueIdx
	sel.ValueColumn = table.Headers[valueIdx]

	d.logger.InfoContext(ctx, "columns selected",
		slog.String("date_column", sel.DateColumn),
		slog.Bool("date_overridden", sel.DateOverridden),
		slog.String("value_column", sel.ValueColumn),
		slog.Bool("value_overridden", sel.ValueOverridden),
		slog.Float64("date_fraction", sel.DateFraction()),
		slog.Float64("value_fraction", sel.ValueFraction()))

	return sel, nil
}

// qualifies applies the strict threshold: exactly the threshold fraction is
// not enough.
func (d *Detector) qualifies(count, total int) bool {
	if total == 0 {
		return false
	}
	return float64(count) > d.threshold*float64(total)
}

// countParses scans the table once, counting per column how many cells
// parse as dates and how many parse as numbers. Blank cells count toward
// neither but stay in the denominator.
func (d *Detector) countParses(table *domain.RawTable) (dateCounts, numberCounts []int) {
	cols := table.ColumnCount()
	dateCounts = make([]int, cols)
	numberCounts = make([]int, cols)

	for _, row := range table.Rows {
		for j := 0; j < cols && j < len(row); j++ {
			cell := row[j]
			if domain.IsBlankCell(cell) {
				continue
			}
			if _, ok := ParseDate(cell, d.formats); ok {
				dateCounts[j]++
			}
			if _, ok := ParseNumber(cell); ok {
				numberCounts[j]++
			}
		}
	}
	return dateCounts, numberCounts
}
