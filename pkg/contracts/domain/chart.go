package domain

import "time"

// ChartData is a render-ready description of the aggregated series for any
// plotting frontend. Values are raw numbers; Labels, Hover, and Ticks carry
// the formatted presentation so renderers never re-derive formatting.
type ChartData struct {
	Title  string `json:"title"`
	XTitle string `json:"x_title"`
	YTitle string `json:"y_title"`

	// Parallel arrays, one entry per bucket in chronological order.
	Periods []time.Time `json:"periods"`
	Labels  []string    `json:"labels"`
	Values  []float64   `json:"values"`
	Hover   []string    `json:"hover"`

	// Y axis ticks covering the value range.
	Ticks []Tick `json:"ticks"`

	// Average reference line at the mean bucket value.
	AverageLine      float64 `json:"average_line"`
	AverageLineLabel string  `json:"average_line_label"`
}

// Tick is one formatted axis tick.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// PointCount returns the number of plotted buckets.
func (c ChartData) PointCount() int {
	return len(c.Values)
}
