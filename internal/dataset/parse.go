package dataset

import (
	"strconv"
	"strings"
	"time"
)

// currencySymbols are stripped before numeric parsing. Column detection
// tolerates the symbols commonly found in exported spreadsheets.
var currencySymbols = []string{"$", "€", "£", "¥"}

// ParseDate parses a date cell against the format list in order. The result
// is normalized to midnight UTC so observations compare by calendar date.
// Blank cells never parse.
func ParseDate(s string, formats []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// ParseNumber parses a numeric cell. Currency symbols, thousands
// separators, and a trailing percent sign are stripped; parentheses mean
// negation, so "(2,000.00)" parses as -2000. Blank cells never parse.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	for _, symbol := range currencySymbols {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
