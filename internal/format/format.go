// Package format renders numbers, periods, and axis ticks for display.
// Formatting is purely presentational: values are never changed, rounding
// happens only in the rendered string.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// CurrencyPolicy describes how monetary values are rendered.
type CurrencyPolicy struct {
	// Symbol is the currency marker, "$" by default.
	Symbol string
	// ThousandsSep groups integer digits; empty disables grouping.
	ThousandsSep string
	// DecimalSep separates the fractional digits.
	DecimalSep string
	// Decimals is the number of fractional digits to render.
	Decimals int
	// SymbolSuffix places the symbol after the amount instead of before it.
	SymbolSuffix bool
}

// DefaultPolicy returns dollar-prefixed formatting with comma grouping and
// two decimal places.
func DefaultPolicy() CurrencyPolicy {
	return CurrencyPolicy{
		Symbol:       "$",
		ThousandsSep: ",",
		DecimalSep:   ".",
		Decimals:     2,
	}
}

// FromConfig builds the presentation policy from configuration.
func FromConfig(cfg config.FormatConfig) CurrencyPolicy {
	return CurrencyPolicy{
		Symbol:       cfg.CurrencySymbol,
		ThousandsSep: cfg.ThousandsSep,
		DecimalSep:   cfg.DecimalSep,
		Decimals:     cfg.Decimals,
		SymbolSuffix: cfg.SymbolSuffix,
	}
}

// Currency renders v as money: fixed decimals, grouped integer digits, and
// the symbol attached per policy. Negative amounts carry the minus ahead of
// the symbol; suffix mode separates the symbol with a space.
func (p CurrencyPolicy) Currency(v float64) string {
	negative, body := p.fixed(v, p.Decimals)
	if p.SymbolSuffix {
		body = body + " " + p.Symbol
	} else {
		body = p.Symbol + body
	}
	if negative {
		body = "-" + body
	}
	return body
}

// Number renders v without a currency symbol, grouped, at the given number
// of decimal places.
func (p CurrencyPolicy) Number(v float64, decimals int) string {
	negative, body := p.fixed(v, decimals)
	if negative {
		body = "-" + body
	}
	return body
}

// fixed renders |v| at the given precision, rounding half away from zero,
// and reports whether the rounded value is negative. A value that rounds to
// zero is never negative, so "-0.00" cannot come back.
func (p CurrencyPolicy) fixed(v float64, decimals int) (negative bool, s string) {
	if decimals < 0 {
		decimals = 0
	}
	negative = v < 0

	scale := math.Pow(10, float64(decimals))
	scaled := math.Floor(math.Abs(v)*scale + 0.5)
	if scaled == 0 {
		negative = false
	}

	digits := strconv.FormatFloat(scaled, 'f', -1, 64)
	if decimals == 0 {
		return negative, groupDigits(digits, p.ThousandsSep)
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	intPart := groupDigits(digits[:len(digits)-decimals], p.ThousandsSep)
	return negative, intPart + p.DecimalSep + digits[len(digits)-decimals:]
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// PeriodLabel renders the label of a bucket starting at t. Daily and weekly
// buckets are labeled by their start date (a Monday for weekly), months as
// "Jan 2006", quarters as "Q1 2006", years as "2006".
func PeriodLabel(t time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityMonthly:
		return t.Format("Jan 2006")
	case domain.GranularityQuarterly:
		return fmt.Sprintf("Q%d %d", (int(t.Month())-1)/3+1, t.Year())
	case domain.GranularityYearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// HoverText renders the single-line tooltip for one bucket: period label,
// formatted total, and observation count. Weekly buckets read "Week of"
// their Monday.
func (p CurrencyPolicy) HoverText(b domain.Bucket, g domain.Granularity) string {
	label := PeriodLabel(b.Start, g)
	if g == domain.GranularityWeekly {
		label = "Week of " + label
	}
	return fmt.Sprintf("%s: %s (%d obs)", label, p.Currency(b.Value), b.Count)
}

// AxisTicks places formatted ticks over [min, max] at a round step near the
// target count. Steps are 1, 2, 2.5, or 5 times a power of ten; the first
// tick sits at or below min and the last at or above max, so the data range
// is always covered. A flat range is widened around its value first.
func (p CurrencyPolicy) AxisTicks(min, max float64, target int) []domain.Tick {
	if target < 2 {
		target = 2
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		pad := math.Abs(max)
		if pad == 0 {
			pad = 1
		}
		min -= pad / 2
		max += pad / 2
	}

	step := niceStep((max - min) / float64(target-1))
	start := math.Floor(min/step) * step
	end := math.Ceil(max/step) * step

	n := int(math.Round((end-start)/step)) + 1
	ticks := make([]domain.Tick, 0, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		ticks = append(ticks, domain.Tick{Value: v, Label: p.Currency(v)})
	}
	return ticks
}

// niceStep returns the smallest round step not below raw.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			return m * mag
		}
	}
	return 10 * mag
}
