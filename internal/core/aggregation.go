package core

import "github.com/shopspring/decimal"

// aggregatedTotals is the branch-wide sum of one product's movement fields.
type aggregatedTotals struct {
	sales, initialStock, transfersIn, transfersOut decimal.Decimal
	returns, losses, finalCount                    decimal.Decimal
	override                                       decimal.Decimal
	anyOverride                                    bool
}

func (t *aggregatedTotals) add(it InventoryItem) {
	t.sales = t.sales.Add(it.Sales)
	t.initialStock = t.initialStock.Add(it.InitialStock)
	t.transfersIn = t.transfersIn.Add(it.TransfersIn)
	t.transfersOut = t.transfersOut.Add(it.TransfersOut)
	t.returns = t.returns.Add(it.Returns)
	t.losses = t.losses.Add(it.Losses)
	t.finalCount = t.finalCount.Add(it.FinalCount)
	if v, ok := it.SystemStock.Override(); ok {
		t.override = t.override.Add(v)
		t.anyOverride = true
	}
}

// applyTo overwrites the aggregated fields of a central item.
// Inputs is left alone: on the central item it is fed by the purchase log.
func (t aggregatedTotals) applyTo(it *InventoryItem) {
	it.Sales = t.sales
	it.InitialStock = t.initialStock
	it.TransfersIn = t.transfersIn
	it.TransfersOut = t.transfersOut
	it.Returns = t.returns
	it.Losses = t.losses
	it.FinalCount = t.finalCount
	if t.anyOverride {
		it.SystemStock = OverrideStock(t.override)
	} else {
		it.SystemStock = AutomaticStock()
	}
}

// AggregateCentral recomputes the central items of productID from the full sum
// over every branch. Only the first matching item of each branch contributes.
// The returned slice shares every location except central with the input;
// when central has no item of the product the input is returned unchanged.
func AggregateCentral(locations []Location, productID string) []Location {
	centralIdx := -1
	for i := range locations {
		if locations[i].IsCentral() {
			centralIdx = i
			break
		}
	}
	if centralIdx < 0 || productID == "" {
		return locations
	}

	hasTarget := false
	for _, it := range locations[centralIdx].Items {
		if it.ProductID == productID {
			hasTarget = true
			break
		}
	}
	if !hasTarget {
		return locations
	}

	var totals aggregatedTotals
	for _, loc := range locations {
		if loc.IsCentral() {
			continue
		}
		for _, it := range loc.Items {
			if it.ProductID == productID {
				totals.add(it)
				break
			}
		}
	}

	out := make([]Location, len(locations))
	copy(out, locations)
	central := out[centralIdx].clone()
	for i := range central.Items {
		if central.Items[i].ProductID == productID {
			totals.applyTo(&central.Items[i])
		}
	}
	out[centralIdx] = central
	return out
}

// AggregateCentralByName resolves the product through the central catalog by
// normalized name, then aggregates it.
func AggregateCentralByName(locations []Location, name string) []Location {
	key := NormalizeName(name)
	for _, loc := range locations {
		if !loc.IsCentral() {
			continue
		}
		for _, it := range loc.Items {
			if NormalizeName(it.Name) == key {
				return AggregateCentral(locations, it.ProductID)
			}
		}
	}
	return locations
}
