// Package dataset turns raw tabular files into typed time series.
//
// It covers three responsibilities, in the order a pipeline uses them:
//
//	1. Loading: CSV and Excel files become a domain.RawTable of string
//	   cells. Rows are normalized to the header width; nothing is typed yet.
//	2. Detection: the Detector scans columns for the one that parses as
//	   dates and the one that parses as numbers, or applies the caller's
//	   manual overrides.
//	3. Building: the Builder converts rows into a sorted domain.Series,
//	   dropping rows whose date or value cell does not parse and counting
//	   them, so a few malformed rows never fail a whole dataset.
//
// # Parsing Rules
//
// Date cells are tried against a configurable format list in order; the
// first match wins and the result is normalized to midnight UTC. Number
// cells tolerate currency symbols, thousands separators, trailing percent
// signs, and parentheses negation, so "$1,234.56" and "(2,000.00)" both
// parse.
//
// # Detection Rules
//
// A column qualifies for a role when the fraction of its cells that parse
// exceeds the configured threshold, counted against all rows including
// blank cells. The best fraction wins; ties go to the leftmost column. The
// chosen date column is excluded from numeric candidates. Manual overrides
// are validated for existence only and are never parse-checked.
package dataset
