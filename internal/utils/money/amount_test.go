package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1234.56", "1234.56"},
		{"us grouping", "1,234.56", "1234.56"},
		{"eu grouping", "1.234,56", "1234.56"},
		{"single comma decimal", "512,30", "512.3"},
		{"multi group us", "1,234,567.89", "1234567.89"},
		{"multi group eu", "1.234.567,89", "1234567.89"},
		{"dollar symbol", "$1,234.56", "1234.56"},
		{"euro symbol", "€99,95", "99.95"},
		{"leading space", "  42.00", "42"},
		{"negative", "-15.25", "-15.25"},
		{"accounting negative", "(15.25)", "-15.25"},
		{"integer", "1000", "1000"},
		{"zero", "0.00", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseAmountErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "$", "--5", "1-2"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}
