package domain

import "strings"

// RawTable is an untyped tabular dataset as loaded from a CSV or Excel file.
// Cells are kept as raw strings; deciding which columns hold dates and values
// is the detector's job, not the loader's.
type RawTable struct {
	SourceName string     `json:"source_name"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"-"`
}

// ColumnCount returns the number of columns defined by the header row.
func (t *RawTable) ColumnCount() int {
	return len(t.Headers)
}

// RowCount returns the number of data rows (the header is not a row).
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the column with the given header name,
// or -1 when no header matches. Matching is exact.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns all cells of the column at index idx, one per row.
// Rows shorter than the header are padded with empty cells at load time,
// so idx is valid for every row when 0 <= idx < ColumnCount.
func (t *RawTable) Column(idx int) []string {
	cells := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			cells = append(cells, row[idx])
		} else {
			cells = append(cells, "")
		}
	}
	return cells
}

// Overrides carries optional manual column selections. An empty field means
// the corresponding column is detected automatically. Names must match a
// header exactly; they are never parse-checked.
type Overrides struct {
	DateColumn  string `json:"date_column,omitempty"`
	ValueColumn string `json:"value_column,omitempty"`
}

// IsZero reports whether no override was supplied.
func (o Overrides) IsZero() bool {
	return o.DateColumn == "" && o.ValueColumn == ""
}

// ColumnSelection identifies the date and value columns of a table, either
// detected or manually overridden, together with the parse counts that
// justified the automatic choice. Overridden columns carry Parsed == Total == 0.
type ColumnSelection struct {
	DateColumn  string `json:"date_column"`
	DateIndex   int    `json:"date_index"`
	ValueColumn string `json:"value_column"`
	ValueIndex  int    `json:"value_index"`

	DateParsed  int `json:"date_parsed"`
	DateTotal   int `json:"date_total"`
	ValueParsed int `json:"value_parsed"`
	ValueTotal  int `json:"value_total"`

	DateOverridden  bool `json:"date_overridden"`
	ValueOverridden bool `json:"value_overridden"`
}

// DateFraction returns the fraction of rows whose date cell parsed, or 0
// when the column was overridden and never scanned.
func (s ColumnSelection) DateFraction() float64 {
	if s.DateTotal == 0 {
		return 0
	}
	return float64(s.DateParsed) / float64(s.DateTotal)
}

// ValueFraction returns the fraction of rows whose value cell parsed, or 0
// when the column was overridden and never scanned.
func (s ColumnSelection) ValueFraction() float64 {
	if s.ValueTotal == 0 {
		return 0
	}
	return float64(s.ValueParsed) / float64(s.ValueTotal)
}

// BuildStats counts the outcome of turning raw rows into series points.
// Rows that fail date or value parsing are dropped, never fatal.
type BuildStats struct {
	RowsTotal   int `json:"rows_total"`
	RowsKept    int `json:"rows_kept"`
	RowsDropped int `json:"rows_dropped"`
}

// DropRate returns the dropped fraction, 0 for an empty table.
func (s BuildStats) DropRate() float64 {
	if s.RowsTotal == 0 {
		return 0
	}
	return float64(s.RowsDropped) / float64(s.RowsTotal)
}

// IsBlankCell reports whether a cell is empty or whitespace only. Blank
// cells still count toward detection denominators; they just never parse.
func IsBlankCell(s string) bool {
	return strings.TrimSpace(s) == ""
}
