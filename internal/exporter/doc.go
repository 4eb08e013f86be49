// Package exporter writes exploration artifacts to disk.
//
// Three artifacts are produced: the aggregated buckets as CSV, the filtered
// raw series as CSV, and the complete result as indented JSON. CSV files
// carry a UTF-8 BOM by default so Excel opens them as UTF-8; numeric columns
// hold full-precision raw values, with presentation formatting confined to
// the period label column.
package exporter
