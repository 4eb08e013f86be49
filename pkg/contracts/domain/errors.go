package domain

import "errors"

// Sentinel errors for domain conditions callers match with errors.Is.
// Application-layer wrappers add context; these stay stable.
var (
	// ErrNoDateColumn means no column cleared the date parse threshold.
	ErrNoDateColumn = errors.New("no date column found")

	// ErrNoNumericColumn means no column cleared the numeric parse threshold.
	ErrNoNumericColumn = errors.New("no numeric column found")

	// ErrInvalidSelection means a manual column override named a header
	// that does not exist in the table.
	ErrInvalidSelection = errors.New("invalid manual column selection")

	// ErrEmptySeries means an operation that needs at least one observation
	// was given none, typically after range filtering.
	ErrEmptySeries = errors.New("empty series")

	// ErrInvalidDateRange means a range's From falls after its To.
	ErrInvalidDateRange = errors.New("invalid date range: from is after to")

	// ErrInvalidGranularity means a granularity value is not one of the
	// recognized identifiers.
	ErrInvalidGranularity = errors.New("invalid granularity")
)
