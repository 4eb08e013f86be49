package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/internal/validation"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadOptions controls how a dataset file is read
type LoadOptions struct {
	// Delimiter is the CSV field separator; comma when zero.
	Delimiter rune
	// Sheet selects the Excel worksheet; the first sheet when empty.
	Sheet string
}

// Loader reads dataset files into raw tables
type Loader struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewLoader creates a dataset loader
func NewLoader(logger *slog.Logger, maxFileSizeBytes int64) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		validator: validation.NewFileValidator(logger, maxFileSizeBytes),
	}
}

// LoadTable validates path and dispatches on its extension: .csv is read as
// CSV, .xlsx and .xlsm as Excel. Anything else is a validation error.
func (l *Loader) LoadTable(path string, opts LoadOptions) (*domain.RawTable, error) {
	kind, err := l.validator.ValidateDatasetFile(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case validation.FileKindExcel:
		return l.LoadExcel(path, opts)
	default:
		return l.LoadCSV(path, opts)
	}
}

// LoadCSV reads a CSV file into a raw table. The first record is the
// header; a UTF-8 BOM is stripped; rows are normalized to the header width.
func (l *Loader) LoadCSV(path string, opts LoadOptions) (*domain.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	// Width normalization happens below, so ragged rows are fine.
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s has no header row", path), nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read CSV header from %s", path), err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("failed to read CSV row from %s", path), err)
		}
		rows = append(rows, normalizeRow(record, len(headers)))
	}

	table := &domain.RawTable{
		SourceName: filepath.Base(path),
		Headers:    headers,
		Rows:       rows,
	}

	l.logger.Info("loaded CSV dataset",
		slog.String("file", path),
		slog.Int("columns", table.ColumnCount()),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// LoadExcel reads a worksheet into a raw table. The first row is the
// header. Fully empty rows are skipped, matching how blank lines disappear
// from CSV input.
func (l *Loader) LoadExcel(path string, opts LoadOptions) (*domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s has no worksheets", path), nil)
		}
		sheet = sheets[0]
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read sheet %q from %s", sheet, path), err)
	}
	if len(raw) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("sheet %q in %s has no header row", sheet, path), nil)
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for _, record := range raw[1:] {
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, normalizeRow(record, len(headers)))
	}

	table := &domain.RawTable{
		SourceName: filepath.Base(path),
		Headers:    headers,
		Rows:       rows,
	}

	l.logger.Info("loaded Excel dataset",
		slog.String("file", path),
		slog.String("sheet", sheet),
		slog.Int("columns", table.ColumnCount()),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// ResolveInput returns the explicit path when given, otherwise the first
// candidate that exists on disk. No match is a validation error naming the
// candidates so the user can see what was probed.
func (l *Loader) ResolveInput(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			l.logger.Info("using default dataset",
				slog.String("file", candidate))
			return candidate, nil
		}
	}

	return "", apperrors.NewValidationError(
		fmt.Sprintf("no input file given and none of the default files exist: %s",
			strings.Join(candidates, ", ")), nil)
}

// normalizeRow pads short rows with empty cells and truncates long ones so
// every row matches the header width.
func normalizeRow(record []string, width int) []string {
	row := make([]string, width)
	for i := 0; i < width && i < len(record); i++ {
		row[i] = record[i]
	}
	return row
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
