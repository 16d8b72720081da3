package exporter

import (
	"fmt"
	"strings"
)

// FormatCurrency formats an amount for report display, e.g. $1,234,567.89
func FormatCurrency(v float64) string {
	return "$" + addThousands(fmt.Sprintf("%.2f", v))
}

// FormatInt formats an integer with thousands separators
func FormatInt(v int64) string {
	return addThousands(fmt.Sprintf("%d", v))
}

// FormatPercent formats a percentage with two decimal places
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatFloat formats a float with exactly two decimal places, so values
// like 13.4 render as 13.40 in CSV output.
func FormatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// addThousands inserts commas into the integer part of a formatted number
func addThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
