package domain

import (
	"fmt"
	"strings"
)

// Granularity is the bucketing resolution for aggregation. GranularityAuto
// asks the engine to pick one from the span of the filtered data; every
// other value is used as given.
type Granularity string

const (
	GranularityAuto      Granularity = "auto"
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
	GranularityYearly    Granularity = "yearly"
)

// Granularities lists the concrete resolutions from finest to coarsest,
// excluding auto. Order matters: auto resolution walks this list.
var Granularities = []Granularity{
	GranularityDaily,
	GranularityWeekly,
	GranularityMonthly,
	GranularityQuarterly,
	GranularityYearly,
}

// String returns the identifier form ("weekly").
func (g Granularity) String() string {
	return string(g)
}

// Label returns the human form ("Weekly").
func (g Granularity) Label() string {
	switch g {
	case GranularityAuto:
		return "Auto"
	case GranularityDaily:
		return "Daily"
	case GranularityWeekly:
		return "Weekly"
	case GranularityMonthly:
		return "Monthly"
	case GranularityQuarterly:
		return "Quarterly"
	case GranularityYearly:
		return "Yearly"
	default:
		return "Unknown"
	}
}

// Validate rejects values outside the recognized set. Auto is valid here;
// operations that require a concrete resolution check IsConcrete too.
func (g Granularity) Validate() error {
	switch g {
	case GranularityAuto, GranularityDaily, GranularityWeekly,
		GranularityMonthly, GranularityQuarterly, GranularityYearly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
}

// IsConcrete reports whether g is a usable bucketing resolution rather
// than the auto marker.
func (g Granularity) IsConcrete() bool {
	return g != GranularityAuto && g.Validate() == nil
}

// ParseGranularity reads a user-supplied granularity. Matching is
// case-insensitive and accepts single-letter short forms (d, w, m, q, y).
// An empty string means auto.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "a":
		return GranularityAuto, nil
	case "daily", "day", "d":
		return GranularityDaily, nil
	case "weekly", "week", "w":
		return GranularityWeekly, nil
	case "monthly", "month", "m":
		return GranularityMonthly, nil
	case "quarterly", "quarter", "q":
		return GranularityQuarterly, nil
	case "yearly", "year", "annual", "y":
		return GranularityYearly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}
