package core_test

import (
	"fmt"
	"testing"
	"time"

	"barstock/internal/core"
)

func TestBuildFinancialReport_AggregatesAcrossLocations(t *testing.T) {
	locations := []core.Location{
		{ID: "central", Role: core.RoleCentral, Items: []core.InventoryItem{
			{ProductID: "p1", Name: "Gin", Category: "Destilados", CostPrice: dec("85"),
				InitialStock: dec("10"), Inputs: dec("5"), FinalCount: dec("13")},
			{ProductID: "p2", Name: "Cola", Category: "Refrigerante", CostPrice: dec("2.5"),
				InitialStock: dec("100"), FinalCount: dec("60"), Sales: dec("40")},
		}},
		{ID: "bar", Role: core.RoleBranch, Items: []core.InventoryItem{
			{ProductID: "p1", Name: "Gin", Category: "Destilados", CostPrice: dec("85"),
				TransfersIn: dec("2"), FinalCount: dec("1"), Sales: dec("1")},
		}},
	}

	r, err := core.BuildFinancialReport(locations, "", false)
	if err != nil {
		t.Fatalf("BuildFinancialReport: %v", err)
	}
	if len(r.Products) != 2 {
		t.Fatalf("products: got %d, want 2", len(r.Products))
	}

	// Default order: cost of period, highest first. Gin consumes 2+1=3 -> 255; Cola 40 -> 100.
	gin := r.Products[0]
	if gin.Name != "Gin" || gin.LocationsCount != 2 {
		t.Fatalf("first product: got %+v", gin)
	}
	assertDec(t, "gin final stock", gin.FinalStock, "14")
	assertDec(t, "gin consumption", gin.Consumption, "3")
	assertDec(t, "gin cost of period", gin.CostOfPeriod, "255")
	assertDec(t, "gin stock value", gin.StockValue, "1190")
	// Central gin: theoretical 15 vs 13 counted -> -2 * 85.
	assertDec(t, "gin discrepancy", gin.DiscrepancyValue, "-170")

	assertDec(t, "total cost of period", r.TotalCostOfPeriod, "355")
	assertDec(t, "total stock value", r.TotalStockValue, "1340")

	if len(r.Categories) != 2 || r.Categories[0].Category != "Destilados" {
		t.Errorf("categories: got %+v", r.Categories)
	}

	asc, err := core.BuildFinancialReport(locations, "name", false)
	if err != nil {
		t.Fatalf("BuildFinancialReport(name): %v", err)
	}
	if asc.Products[0].Name != "Cola" {
		t.Errorf("name ascending: first is %s", asc.Products[0].Name)
	}

	if _, err := core.BuildFinancialReport(locations, "colour", true); err == nil {
		t.Error("expected error for unknown sort field")
	}
}

func TestBuildDashboard(t *testing.T) {
	locations := []core.Location{
		{ID: "central", Role: core.RoleCentral, Items: []core.InventoryItem{
			{Name: "Cola", CostPrice: dec("2.5"), SellPrice: dec("6"), Sales: dec("10"), FinalCount: dec("20")},
		}},
		{ID: "bar", Role: core.RoleBranch, Items: []core.InventoryItem{
			{Name: "Cola ", CostPrice: dec("2.5"), SellPrice: dec("6"), Sales: dec("5"), FinalCount: dec("4")},
			{Name: "Gin", CostPrice: dec("85"), SellPrice: dec("220"), Sales: dec("1")},
		}},
	}
	purchases := []core.PurchaseRecord{
		{InvoiceNumber: "NF-1", TotalCost: dec("100")},
		{InvoiceNumber: "NF-1", TotalCost: dec("50")},
		{InvoiceNumber: "NF-2", TotalCost: dec("10")},
	}

	d := core.BuildDashboard(locations, purchases)
	assertDec(t, "revenue", d.TotalRevenue, "310")
	assertDec(t, "cogs", d.TotalCOGS, "122.5")
	assertDec(t, "profit", d.Profit, "187.5")
	assertDec(t, "stock value", d.TotalStockValue, "60")
	assertDec(t, "items in stock", d.TotalItemsStock, "24")
	assertDec(t, "purchased", d.TotalPurchasedValue, "160")
	if d.UniqueInvoices != 2 {
		t.Errorf("unique invoices: got %d, want 2", d.UniqueInvoices)
	}
	if len(d.TopProducts) != 2 || d.TopProducts[0].Name != "Cola" {
		t.Fatalf("top products: got %+v", d.TopProducts)
	}
	assertDec(t, "cola qty", d.TopProducts[0].QtySold, "15")
}

func TestBuildDashboard_ZeroRevenueAndTopTen(t *testing.T) {
	var items []core.InventoryItem
	for i := 0; i < 12; i++ {
		items = append(items, core.InventoryItem{Name: fmt.Sprintf("P%02d", i), CostPrice: dec("1"), FinalCount: dec("1")})
	}
	d := core.BuildDashboard([]core.Location{{ID: "central", Role: core.RoleCentral, Items: items}}, nil)
	if !d.Margin.IsZero() {
		t.Errorf("margin without revenue: got %s", d.Margin)
	}
	if len(d.TopProducts) != 10 {
		t.Errorf("top products: got %d, want 10", len(d.TopProducts))
	}
}

func TestBuildPurchaseStats_DecemberRollsOver(t *testing.T) {
	now := time.Date(2026, time.December, 15, 10, 0, 0, 0, time.UTC)
	purchases := []core.PurchaseRecord{
		{TotalCost: dec("100"), PaymentDate: time.Date(2026, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{TotalCost: dec("40"), PaymentDate: time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)},
		{TotalCost: dec("7"), PaymentDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)},
		{TotalCost: dec("3")},
	}
	s := core.BuildPurchaseStats(purchases, now)
	assertDec(t, "total", s.TotalPurchases, "150")
	assertDec(t, "this month", s.PaymentsThisMonth, "100")
	assertDec(t, "next month", s.PaymentsNextMonth, "40")
}

func TestBarDemand(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)
	editByName(t, l, barA, "Red Bull", core.FieldTransfersIn, "24")
	editByName(t, l, barB, "Red Bull", core.FieldTransfersIn, "12")
	editByName(t, l, core.CentralLocationID, "Red Bull", core.FieldTransfersIn, "1000")

	demand := core.NewReportingService(l).GetBarDemand()
	assertDec(t, "red bull demand", demand["red bull"], "36")
	assertDec(t, "cola demand", demand["coca-cola lata"], "0")
}
