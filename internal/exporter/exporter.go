package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/internal/format"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer exports exploration artifacts into the configured output directory.
type Writer struct {
	cfg    config.ExportConfig
	policy format.CurrencyPolicy
	logger *slog.Logger
}

// NewWriter creates an export writer
func NewWriter(cfg config.ExportConfig, policy format.CurrencyPolicy, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{cfg: cfg, policy: policy, logger: logger}
}

// WriteAggregateCSV writes the bucketed series to name inside the output
// directory and returns the full path. Period labels are formatted for
// reading; start dates are ISO and totals keep full float precision, since
// the sheet is input for further work, not display.
func (w *Writer) WriteAggregateCSV(name string, agg domain.Aggregate) (string, error) {
	path := w.resolve(name)

	records := make([][]string, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		records = append(records, []string{
			format.PeriodLabel(b.Start, agg.Granularity),
			b.Start.Format("2006-01-02"),
			strconv.FormatFloat(b.Value, 'f', -1, 64),
			strconv.Itoa(b.Count),
		})
	}

	headers := []string{"period", "start_date", "total", "observations"}
	if err := w.writeCSV(path, headers, records); err != nil {
		return "", err
	}

	w.logger.Info("wrote aggregate CSV",
		slog.String("file", path),
		slog.String("granularity", agg.Granularity.String()),
		slog.Int("buckets", len(agg.Buckets)))
	return path, nil
}

// WriteFilteredCSV writes the filtered raw observations under the column
// names they were selected by, so the export reads like the slice of the
// source table it came from.
func (w *Writer) WriteFilteredCSV(name string, series domain.Series, sel domain.ColumnSelection) (string, error) {
	path := w.resolve(name)

	records := make([][]string, 0, len(series))
	for _, p := range series {
		records = append(records, []string{
			p.Date.Format("2006-01-02"),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		})
	}

	if err := w.writeCSV(path, []string{sel.DateColumn, sel.ValueColumn}, records); err != nil {
		return "", err
	}

	w.logger.Info("wrote filtered series CSV",
		slog.String("file", path),
		slog.Int("rows", len(series)))
	return path, nil
}

// WriteResultJSON writes the complete exploration result as indented JSON.
func (w *Writer) WriteResultJSON(name string, result *domain.ExploreResult) (string, error) {
	path := w.resolve(name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", apperrors.NewExportError("failed to encode result as JSON", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewExportError(
			fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", apperrors.NewExportError(
			fmt.Sprintf("failed to write %s", path), err)
	}

	w.logger.Info("wrote result JSON",
		slog.String("file", path),
		slog.String("run_id", result.RunID))
	return path, nil
}

// resolve joins name with the output directory unless it is already
// absolute.
func (w *Writer) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.cfg.OutputDir, name)
}

// writeCSV writes one CSV file with a header row, creating the directory
// first and prefixing a UTF-8 BOM when configured.
func (w *Writer) writeCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError(
			fmt.Sprintf("failed to create directory for %s", path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError(
			fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	if w.cfg.IncludeBOM {
		if _, err := file.Write(utf8BOM); err != nil {
			return apperrors.NewExportError(
				fmt.Sprintf("failed to write BOM to %s", path), err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return apperrors.NewExportError(
			fmt.Sprintf("failed to write header to %s", path), err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewExportError(
				fmt.Sprintf("failed to write record %d to %s", i, path), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewExportError(
			fmt.Sprintf("failed to flush %s", path), err)
	}
	return nil
}
