package core_test

import (
	"testing"

	"barstock/internal/core"
)

func TestCalculate_Formula(t *testing.T) {
	it := core.InventoryItem{
		CostPrice:    dec("2.50"),
		SellPrice:    dec("6.00"),
		InitialStock: dec("100"),
		Inputs:       dec("20"),
		TransfersIn:  dec("5"),
		TransfersOut: dec("10"),
		Returns:      dec("2"),
		Losses:       dec("3"),
		Sales:        dec("60"),
		FinalCount:   dec("48"),
	}
	c := core.Calculate(it)

	// 100 + 20 + 5 - 10 - 2 - 3 - 60 = 50
	assertDec(t, "theoretical", c.TheoreticalStock, "50")
	assertDec(t, "difference", c.Difference, "-2")
	assertDec(t, "financial difference", c.FinancialDifference, "-5")
	assertDec(t, "revenue", c.Revenue, "360")
	assertDec(t, "cogs", c.COGS, "150")
	assertDec(t, "profit", c.Profit, "210")
	assertDec(t, "margin", c.Margin.Round(4), "58.3333")
	assertDec(t, "stock value", c.TotalStockValue, "120")
	// 100 + 20 + 5 - 10 - 2 - 3 - 48 = 62
	assertDec(t, "consumption", c.RealConsumption, "62")
	assertDec(t, "cost of period", c.CostOfPeriod, "155")
}

func TestCalculate_OverrideWins(t *testing.T) {
	it := core.InventoryItem{
		InitialStock: dec("10"),
		Sales:        dec("4"),
		FinalCount:   dec("7"),
		SystemStock:  core.OverrideStock(dec("9")),
	}
	c := core.Calculate(it)
	assertDec(t, "theoretical", c.TheoreticalStock, "9")
	assertDec(t, "difference", c.Difference, "-2")

	if err := it.ApplyField(core.FieldManualSystemStock, "  "); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	if it.SystemStock.IsOverride() {
		t.Fatal("blank value should clear the override")
	}
	assertDec(t, "theoretical after clear", core.Calculate(it).TheoreticalStock, "6")
}

func TestCalculate_ZeroRevenueMargin(t *testing.T) {
	c := core.Calculate(core.InventoryItem{CostPrice: dec("5"), FinalCount: dec("3")})
	if !c.Margin.IsZero() {
		t.Errorf("margin with no revenue: got %s, want 0", c.Margin)
	}
}

func TestCriticalItems(t *testing.T) {
	items := core.CalculateAll([]core.InventoryItem{
		{Name: "clean", InitialStock: dec("5"), FinalCount: dec("5")},
		{Name: "short", InitialStock: dec("5"), FinalCount: dec("4")},
		{Name: "lossy", InitialStock: dec("5"), Losses: dec("1"), FinalCount: dec("4")},
		{Name: "noted", InitialStock: dec("5"), FinalCount: dec("5"), AuditNotes: "broken seal"},
	})
	got := core.CriticalItems(items)
	if len(got) != 3 {
		t.Fatalf("expected 3 critical items, got %d", len(got))
	}
	for _, c := range got {
		if c.Name == "clean" {
			t.Errorf("clean item flagged as critical")
		}
	}
}

func TestSummarizeLocation(t *testing.T) {
	items := core.CalculateAll([]core.InventoryItem{
		{CostPrice: dec("10"), InitialStock: dec("5"), FinalCount: dec("5")},
		{CostPrice: dec("2"), InitialStock: dec("5"), FinalCount: dec("3")},
		{CostPrice: dec("1"), InitialStock: dec("5"), FinalCount: dec("5.005")},
	})
	s := core.SummarizeLocation(items)
	assertDec(t, "stock value", s.TotalStockValue, "61.005")
	assertDec(t, "discrepancy value", s.TotalDiscrepancyValue, "-3.995")
	if s.ItemsWithDiscrepancy != 1 {
		t.Errorf("items with discrepancy: got %d, want 1", s.ItemsWithDiscrepancy)
	}
}

func TestApplyField_Coercion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12.5", "12.5"},
		{"12,5", "12.5"},
		{"-3", "-3"},
		{"abc", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		var it core.InventoryItem
		if err := it.ApplyField(core.FieldFinalCount, tt.raw); err != nil {
			t.Fatalf("ApplyField(%q): %v", tt.raw, err)
		}
		assertDec(t, "finalCount from "+tt.raw, it.FinalCount, tt.want)
	}

	if _, err := core.ParseField("colour"); err == nil {
		t.Error("expected error for unknown field")
	}
}
