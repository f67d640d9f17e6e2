// Package render holds terminal formatting shared by the REPL and CLI adapters.
package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats an amount in the given ISO currency, e.g. "R$1.234,56" for BRL.
// Unknown currencies fall back to a plain two-decimal string.
func Money(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// Quantity prints a stock quantity without trailing zeros.
func Quantity(q decimal.Decimal) string {
	return q.String()
}

// Percent prints a percentage with one decimal.
func Percent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
