package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a locale-formatted decimal string into an exact
// decimal value. It accepts both "1,234.56" and "1.234,56" styles, an
// optional leading currency symbol, surrounding whitespace and a leading
// minus sign or accounting-style parentheses for negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = raw[1 : len(raw)-1]
	}

	// Strip everything that is not a digit, separator or sign. This drops
	// currency symbols ($, €, R$) and grouping spaces.
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("no digits in amount %q", s)
	}
	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = cleaned[1:]
	}
	if strings.Contains(cleaned, "-") {
		return decimal.Zero, fmt.Errorf("misplaced sign in amount %q", s)
	}

	// The rightmost of '.' and ',' is the decimal separator; the other one
	// (and any earlier occurrences) is a grouping separator.
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		// Repeated commas can only be grouping ("1,234,567"); a single
		// comma is read as the decimal separator.
		if strings.Count(cleaned, ",") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
