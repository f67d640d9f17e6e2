package core

import "github.com/shopspring/decimal"

func seedItem(id, code, name, category, unit string, cost, sell, minStock, initial, inputs, final float64) InventoryItem {
	return InventoryItem{
		ID:           id,
		Code:         code,
		Name:         name,
		Category:     category,
		Unit:         unit,
		CostPrice:    decimal.NewFromFloat(cost),
		SellPrice:    decimal.NewFromFloat(sell),
		MinStock:     decimal.NewFromFloat(minStock),
		InitialStock: decimal.NewFromFloat(initial),
		Inputs:       decimal.NewFromFloat(inputs),
		FinalCount:   decimal.NewFromFloat(final),
	}
}

// SeedLocations returns the catalog a fresh session starts with: the central
// warehouse and its five opening products.
func SeedLocations() []Location {
	return []Location{
		{
			ID:   CentralLocationID,
			Name: "Estoque Geral",
			Role: RoleCentral,
			Items: []InventoryItem{
				seedItem("cent_1", "1001", "Coca-Cola Lata", "Refrigerante", "cx", 2.50, 6.00, 200, 500, 100, 548),
				seedItem("cent_2", "3001", "Heineken Barril 50L", "Cerveja", "br", 450, 900, 5, 20, 10, 25),
				seedItem("cent_3", "2010", "Gin Tanqueray", "Destilados", "cx", 85, 220, 5, 10, 5, 13),
				seedItem("cent_4", "2001", "Absolut Vodka", "Destilados", "gf", 60, 150, 20, 50, 10, 60),
				seedItem("cent_5", "1002", "Red Bull", "Energético", "un", 6, 15, 100, 200, 50, 250),
			},
		},
	}
}

// NewSeededLedger builds a ledger over SeedLocations with an empty purchase log.
func NewSeededLedger() *Ledger {
	l, err := NewLedger(SeedLocations(), nil)
	if err != nil {
		panic("core: seed catalog rejected: " + err.Error())
	}
	return l
}
