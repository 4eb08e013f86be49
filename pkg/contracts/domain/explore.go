package domain

import (
	"time"
)

// ExploreRequest describes one exploration run over an already-loaded table.
// Zero values mean "decide for me": empty columns are auto-detected, zero
// range bounds are unbounded, and an empty granularity resolves as auto.
type ExploreRequest struct {
	DateColumn  string      `json:"date_column,omitempty"`
	ValueColumn string      `json:"value_column,omitempty"`
	From        time.Time   `json:"from,omitempty"`
	To          time.Time   `json:"to,omitempty"`
	Granularity Granularity `json:"granularity,omitempty"`
}

// Overrides returns the manual column selections carried by the request.
func (r ExploreRequest) Overrides() Overrides {
	return Overrides{DateColumn: r.DateColumn, ValueColumn: r.ValueColumn}
}

// Range returns the requested date range.
func (r ExploreRequest) Range() DateRange {
	return DateRange{From: r.From, To: r.To}
}

// Validate checks the request's internal consistency: a well-formed range
// and a recognized granularity. Column names are validated against the
// table by the detector, not here.
func (r ExploreRequest) Validate() error {
	if err := r.Range().Validate(); err != nil {
		return err
	}
	if r.Granularity != "" {
		if err := r.Granularity.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ExploreResult is the complete outcome of one exploration run. KPIs is nil
// when the filtered series was empty; KPIError then carries the reason so a
// frontend can show the warning next to an empty chart instead of failing
// the whole run.
type ExploreResult struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`

	Selection ColumnSelection `json:"selection"`
	Stats     BuildStats      `json:"stats"`
	Range     DateRange       `json:"range"`

	Requested Granularity `json:"requested_granularity"`
	Resolved  Granularity `json:"resolved_granularity"`
	SpanDays  int         `json:"span_days"`

	// Filtered holds the observations inside Range, the rows a data table
	// view or filtered export shows.
	Filtered Series `json:"filtered,omitempty"`

	Aggregate Aggregate  `json:"aggregate"`
	KPIs      *KPIReport `json:"kpis,omitempty"`
	KPIError  string     `json:"kpi_error,omitempty"`
	Chart     *ChartData `json:"chart,omitempty"`

	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
}

// HasData reports whether at least one observation survived filtering.
func (r *ExploreResult) HasData() bool {
	return r.KPIs != nil && r.KPIs.Count > 0
}
