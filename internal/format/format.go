// Package format renders amounts for display in the fixed id-ID locale:
// "." groups thousands and "," separates decimals.
package format

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	currencySymbol = "Rp "

	wholeLayout   = "#.###,"
	decimalLayout = "#.###,##"
)

// Currency formats v as Rupiah without decimals, e.g. "Rp 1.250.000".
func Currency(v float64) string {
	v = finite(v)
	if v < 0 {
		return "-" + currencySymbol + humanize.FormatFloat(wholeLayout, -v)
	}
	return currencySymbol + humanize.FormatFloat(wholeLayout, v)
}

// Percentage formats v with two decimals, e.g. "76,00%".
func Percentage(v float64) string {
	return humanize.FormatFloat(decimalLayout, finite(v)) + "%"
}

// Number formats a quantity, keeping up to two decimals only when needed,
// e.g. "1.250" or "2,5".
func Number(v float64) string {
	v = finite(v)
	if v == math.Trunc(v) {
		return humanize.FormatFloat(wholeLayout, v)
	}
	s := humanize.FormatFloat(decimalLayout, v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ",")
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
