// Package core holds the run record, the wealth conversion and the
// aggregation rules shared by every page.
//
// This file contains the fixed distance-to-currency conversion and the
// display formatting of amounts and distances.
package core

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Rate is the nominal contribution in currency units per km.
var Rate = decimal.NewFromInt(1)

// FormatWealth converts a distance into its wealth string, two fractional
// digits with half-up rounding. Rounding applies to the shortest decimal
// form of the float, so 1.005 is "1.01" even though the nearest float64 is
// slightly below 1.005.
//
// Examples:
//
//	FormatWealth(5)     -> "5.00"
//	FormatWealth(3.456) -> "3.46"
func FormatWealth(distance float64) string {
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(distance).Mul(Rate).StringFixed(2)
}

// FormatCurrency renders an amount as "$12.34".
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatSignedCurrency renders a contribution as "+$12.34".
func FormatSignedCurrency(amount decimal.Decimal) string {
	return "+" + FormatCurrency(amount)
}

// FormatDistance renders a single run distance with the shortest
// representation, so 5 is "5" and 3.25 is "3.25".
func FormatDistance(distance float64) string {
	return strconv.FormatFloat(distance, 'f', -1, 64)
}

// FormatTotalKm renders an accumulated distance with one decimal and the
// unit suffix, e.g. "12.5 km".
func FormatTotalKm(distance float64) string {
	return strconv.FormatFloat(distance, 'f', 1, 64) + " km"
}
