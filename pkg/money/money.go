// Package money formats and multiplies decimal amounts for receipts and APIs.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders whole amounts without decimals and everything else with
// two fraction digits: 25 -> "25", 25.5 -> "25.50".
func Format(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return amount.Truncate(0).String()
	}
	return amount.StringFixed(2)
}

// FormatWithLabel appends the currency label when one is configured.
func FormatWithLabel(amount decimal.Decimal, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return Format(amount)
	}
	return Format(amount) + " " + label
}

// Times multiplies an amount by an integer quantity.
func Times(amount decimal.Decimal, qty int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(qty)))
}
