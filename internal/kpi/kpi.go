// Package kpi derives the headline statistics of an exploration run.
package kpi

import (
	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// Compute summarizes the raw observations that survived filtering. The
// aggregated buckets never feed these numbers: Average is a per-observation
// mean, and Max and Min carry the date of the extreme observation. The
// series must be sorted ascending; strict comparisons then leave ties on the
// earliest date. Report.Range is the observed span, which can be narrower
// than the requested filter.
//
// An empty series returns a typed empty-series error; r describes the
// requested range in that error and plays no part in the math.
func Compute(series domain.Series, r domain.DateRange) (domain.KPIReport, error) {
	if len(series) == 0 {
		return domain.KPIReport{}, apperrors.NewEmptySeriesError(r)
	}

	report := domain.KPIReport{
		Count: len(series),
		Max:   series[0],
		Min:   series[0],
	}

	for _, p := range series {
		report.Total += p.Value
		if p.Value > report.Max.Value {
			report.Max = p
		}
		if p.Value < report.Min.Value {
			report.Min = p
		}
	}

	report.Average = report.Total / float64(report.Count)
	report.Range = domain.DateRange{
		From: series[0].Date,
		To:   series[len(series)-1].Date,
	}

	return report, nil
}
