package core

import "github.com/shopspring/decimal"

var (
	hundred            = decimal.NewFromInt(100)
	discrepancyEpsilon = decimal.NewFromFloat(0.01)
)

// CalculatedItem is an InventoryItem with its derived figures.
// None of these values are stored; they are recomputed on every read.
type CalculatedItem struct {
	InventoryItem

	TheoreticalStock    decimal.Decimal
	Difference          decimal.Decimal // FinalCount - TheoreticalStock
	FinancialDifference decimal.Decimal // Difference * CostPrice
	Revenue             decimal.Decimal
	COGS                decimal.Decimal
	Profit              decimal.Decimal
	Margin              decimal.Decimal // percent, zero when there is no revenue
	TotalStockValue     decimal.Decimal // FinalCount * CostPrice
	RealConsumption     decimal.Decimal
	CostOfPeriod        decimal.Decimal
}

// TheoreticalStock is the stock the system expects on the shelf.
// A pinned override always wins over the movement formula.
func TheoreticalStock(it InventoryItem) decimal.Decimal {
	if v, ok := it.SystemStock.Override(); ok {
		return v
	}
	return it.InitialStock.
		Add(it.Inputs).
		Add(it.TransfersIn).
		Sub(it.TransfersOut).
		Sub(it.Returns).
		Sub(it.Losses).
		Sub(it.Sales)
}

// RealConsumption is what actually left the shelf according to the physical count.
func RealConsumption(it InventoryItem) decimal.Decimal {
	return it.InitialStock.
		Add(it.Inputs).
		Add(it.TransfersIn).
		Sub(it.TransfersOut).
		Sub(it.Returns).
		Sub(it.Losses).
		Sub(it.FinalCount)
}

// Calculate derives the reconciliation and financial figures of one item.
func Calculate(it InventoryItem) CalculatedItem {
	theoretical := TheoreticalStock(it)
	diff := it.FinalCount.Sub(theoretical)
	revenue := it.Sales.Mul(it.SellPrice)
	cogs := it.Sales.Mul(it.CostPrice)
	profit := revenue.Sub(cogs)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(hundred)
	}
	consumption := RealConsumption(it)

	return CalculatedItem{
		InventoryItem:       it,
		TheoreticalStock:    theoretical,
		Difference:          diff,
		FinancialDifference: diff.Mul(it.CostPrice),
		Revenue:             revenue,
		COGS:                cogs,
		Profit:              profit,
		Margin:              margin,
		TotalStockValue:     it.FinalCount.Mul(it.CostPrice),
		RealConsumption:     consumption,
		CostOfPeriod:        consumption.Mul(it.CostPrice),
	}
}

// CalculateAll maps Calculate over items, preserving order.
func CalculateAll(items []InventoryItem) []CalculatedItem {
	out := make([]CalculatedItem, len(items))
	for i, it := range items {
		out[i] = Calculate(it)
	}
	return out
}

// HasDiscrepancy reports a count mismatch above rounding noise.
func (c CalculatedItem) HasDiscrepancy() bool {
	return c.Difference.Abs().GreaterThan(discrepancyEpsilon)
}

// IsCritical reports whether the item deserves an auditor's attention.
func (c CalculatedItem) IsCritical() bool {
	return !c.Difference.IsZero() ||
		c.Losses.IsPositive() ||
		c.Returns.IsPositive() ||
		c.AuditNotes != ""
}

// LocationSummary totals the figures shown above a location's grid.
type LocationSummary struct {
	TotalStockValue       decimal.Decimal
	TotalDiscrepancyValue decimal.Decimal
	ItemsWithDiscrepancy  int
	TotalRevenue          decimal.Decimal
	TotalProfit           decimal.Decimal
}

// SummarizeLocation totals calculated items of one location.
func SummarizeLocation(items []CalculatedItem) LocationSummary {
	var s LocationSummary
	for _, c := range items {
		s.TotalStockValue = s.TotalStockValue.Add(c.TotalStockValue)
		s.TotalDiscrepancyValue = s.TotalDiscrepancyValue.Add(c.FinancialDifference)
		s.TotalRevenue = s.TotalRevenue.Add(c.Revenue)
		s.TotalProfit = s.TotalProfit.Add(c.Profit)
		if c.HasDiscrepancy() {
			s.ItemsWithDiscrepancy++
		}
	}
	return s
}
