package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Granularity
		wantErr bool
	}{
		{name: "empty means auto", input: "", want: GranularityAuto},
		{name: "auto", input: "auto", want: GranularityAuto},
		{name: "daily", input: "daily", want: GranularityDaily},
		{name: "day word", input: "day", want: GranularityDaily},
		{name: "short d", input: "d", want: GranularityDaily},
		{name: "weekly", input: "weekly", want: GranularityWeekly},
		{name: "short w", input: "w", want: GranularityWeekly},
		{name: "monthly uppercase", input: "MONTHLY", want: GranularityMonthly},
		{name: "quarter word", input: "quarter", want: GranularityQuarterly},
		{name: "annual alias", input: "annual", want: GranularityYearly},
		{name: "surrounding whitespace", input: "  yearly ", want: GranularityYearly},
		{name: "unknown value", input: "fortnightly", wantErr: true},
		{name: "numeric junk", input: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGranularity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidGranularity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGranularityValidate(t *testing.T) {
	for _, g := range Granularities {
		assert.NoError(t, g.Validate(), "granularity %s", g)
		assert.True(t, g.IsConcrete(), "granularity %s", g)
	}

	assert.NoError(t, GranularityAuto.Validate())
	assert.False(t, GranularityAuto.IsConcrete())

	err := Granularity("hourly").Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestGranularityLabel(t *testing.T) {
	tests := []struct {
		g    Granularity
		want string
	}{
		{GranularityAuto, "Auto"},
		{GranularityDaily, "Daily"},
		{GranularityWeekly, "Weekly"},
		{GranularityMonthly, "Monthly"},
		{GranularityQuarterly, "Quarterly"},
		{GranularityYearly, "Yearly"},
		{Granularity("bogus"), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.g.Label())
	}
}
