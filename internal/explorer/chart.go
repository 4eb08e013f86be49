package explorer

import (
	"fmt"
	"time"

	"github.com/sarahsmason/Time-Series-Explorer/internal/format"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// BuildChart turns an aggregate into render-ready parallel arrays: period
// labels, raw values, hover texts, axis ticks, and the average reference
// line at the mean bucket value. That mean describes buckets, not raw
// observations, so it is deliberately not the KPI average. An aggregate
// with no buckets has nothing to plot and yields nil.
func (s *Service) BuildChart(source string, agg domain.Aggregate) *domain.ChartData {
	n := len(agg.Buckets)
	if n == 0 {
		return nil
	}

	chart := &domain.ChartData{
		Title:   fmt.Sprintf("%s Totals for %s", agg.Granularity.Label(), source),
		XTitle:  "Period",
		YTitle:  "Total",
		Periods: make([]time.Time, n),
		Labels:  make([]string, n),
		Values:  make([]float64, n),
		Hover:   make([]string, n),
	}

	min, max := agg.Buckets[0].Value, agg.Buckets[0].Value
	for i, b := range agg.Buckets {
		chart.Periods[i] = b.Start
		chart.Labels[i] = format.PeriodLabel(b.Start, agg.Granularity)
		chart.Values[i] = b.Value
		chart.Hover[i] = s.policy.HoverText(b, agg.Granularity)

		if b.Value < min {
			min = b.Value
		}
		if b.Value > max {
			max = b.Value
		}
	}

	chart.Ticks = s.policy.AxisTicks(min, max, s.cfg.Format.AxisTickCount)

	mean := agg.MeanBucketValue()
	chart.AverageLine = mean
	chart.AverageLineLabel = fmt.Sprintf("Average: %s", s.policy.Currency(mean))

	return chart
}
