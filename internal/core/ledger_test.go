package core_test

import (
	"errors"
	"testing"
	"time"

	"barstock/internal/core"

	"github.com/shopspring/decimal"
)

func TestLedger_BranchEditAggregatesIntoCentral(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	editByName(t, l, barA, "Red Bull", core.FieldFinalCount, "10")
	editByName(t, l, barB, "Red Bull", core.FieldFinalCount, "7")
	editByName(t, l, barA, "Red Bull", core.FieldSales, "30")
	res := editByName(t, l, barB, "Red Bull", core.FieldLosses, "2")

	if !res.Applied || len(res.Recomputed) != 1 {
		t.Fatalf("expected one recomputed product, got %+v", res)
	}

	central := itemNamed(t, l.Central(), "Red Bull")
	assertDec(t, "central finalCount", central.FinalCount, "17")
	assertDec(t, "central sales", central.Sales, "30")
	assertDec(t, "central losses", central.Losses, "2")
	assertDec(t, "central initialStock", central.InitialStock, "0")
}

func TestLedger_CentralIsOverwrittenNotAdded(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	cola := itemNamed(t, mustLocation(t, l, barB), "Coca-Cola Lata")
	if _, err := l.DeleteItem(barB, cola.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	assertDec(t, "seed central finalCount", itemNamed(t, l.Central(), "Coca-Cola Lata").FinalCount, "548")

	editByName(t, l, barA, "Coca-Cola Lata", core.FieldFinalCount, "10")

	assertDec(t, "central finalCount", itemNamed(t, l.Central(), "Coca-Cola Lata").FinalCount, "10")
}

func TestLedger_BranchInputsLeaveCentralInputsAlone(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)

	res := editByName(t, l, barA, "Absolut Vodka", core.FieldInputs, "30")
	if len(res.Recomputed) != 1 {
		t.Fatalf("inputs edit on a bar should still aggregate, got %+v", res)
	}

	central := itemNamed(t, l.Central(), "Absolut Vodka")
	assertDec(t, "central inputs", central.Inputs, "10")
	// The other movement fields were recomputed from the (zeroed) bars.
	assertDec(t, "central finalCount", central.FinalCount, "0")
	assertDec(t, "bar inputs", itemNamed(t, mustLocation(t, l, barA), "Absolut Vodka").Inputs, "30")
}

func TestLedger_PurchaseFeedsCentralInputs(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	editByName(t, l, core.CentralLocationID, "Gin Tanqueray", core.FieldCostPrice, "80")

	rec, res, err := l.AddPurchase(core.PurchaseRecord{
		InvoiceNumber: "NF-1029",
		Supplier:      " diageo ",
		ProductName:   "Gin Tanqueray",
		Category:      "Destilados",
		Quantity:      dec("24"),
		UnitCost:      dec("85.00"),
		PaymentDate:   time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddPurchase: %v", err)
	}

	assertDec(t, "total cost", rec.TotalCost, "2040.00")
	if rec.Supplier != "DIAGEO" {
		t.Errorf("supplier: got %q, want DIAGEO", rec.Supplier)
	}
	if rec.ID == "" || rec.Date.IsZero() {
		t.Errorf("purchase should get an id and a date, got %+v", rec)
	}
	if len(res.PropagatedTo) != 2 {
		t.Errorf("cost should reach both bars, got %v", res.PropagatedTo)
	}

	central := itemNamed(t, l.Central(), "Gin Tanqueray")
	assertDec(t, "central inputs", central.Inputs, "29")
	assertDec(t, "central cost", central.CostPrice, "85.00")
	for _, id := range []string{barA, barB} {
		bar := itemNamed(t, mustLocation(t, l, id), "Gin Tanqueray")
		assertDec(t, "bar cost", bar.CostPrice, "85.00")
		assertDec(t, "bar inputs", bar.Inputs, "0")
	}

	if got := len(l.Purchases()); got != 1 {
		t.Errorf("purchase log length: got %d, want 1", got)
	}
}

func TestLedger_PurchaseMatchesCentralByExactName(t *testing.T) {
	l, _, _ := newLedgerWithBars(t)

	_, _, err := l.AddPurchase(core.PurchaseRecord{
		InvoiceNumber: "NF-1",
		ProductName:   "gin tanqueray",
		Quantity:      dec("2"),
		UnitCost:      dec("90"),
	})
	if err != nil {
		t.Fatalf("AddPurchase: %v", err)
	}
	central := itemNamed(t, l.Central(), "Gin Tanqueray")
	assertDec(t, "central inputs", central.Inputs, "5")
	assertDec(t, "central cost", central.CostPrice, "85")
}

func TestLedger_PurchaseValidation(t *testing.T) {
	l := core.NewSeededLedger()
	tests := []core.PurchaseRecord{
		{InvoiceNumber: "1", Quantity: dec("1")},
		{ProductName: "Red Bull", Quantity: dec("1")},
		{ProductName: "Red Bull", InvoiceNumber: "1"},
	}
	for _, p := range tests {
		if _, _, err := l.AddPurchase(p); !errors.Is(err, core.ErrInvalidPurchase) {
			t.Errorf("AddPurchase(%+v): expected ErrInvalidPurchase, got %v", p, err)
		}
	}
	if len(l.Purchases()) != 0 {
		t.Error("rejected purchases must not be logged")
	}
}

func TestLedger_CentralPricePropagates(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	res := editByName(t, l, core.CentralLocationID, "Coca-Cola Lata", core.FieldSellPrice, "7.50")
	if len(res.PropagatedTo) != 2 {
		t.Errorf("expected propagation to 2 bars, got %v", res.PropagatedTo)
	}
	for _, id := range []string{barA, barB} {
		assertDec(t, "bar sell price", itemNamed(t, mustLocation(t, l, id), "Coca-Cola Lata").SellPrice, "7.5")
	}
	// Other products are untouched.
	assertDec(t, "red bull sell price", itemNamed(t, mustLocation(t, l, barA), "Red Bull").SellPrice, "15")
}

func TestLedger_BranchPriceStaysLocal(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	res := editByName(t, l, barA, "Coca-Cola Lata", core.FieldCostPrice, "3.00")
	if len(res.PropagatedTo) != 0 || len(res.Recomputed) != 0 {
		t.Errorf("bar price edit should have no downstream effect, got %+v", res)
	}
	assertDec(t, "bar A cost", itemNamed(t, mustLocation(t, l, barA), "Coca-Cola Lata").CostPrice, "3")
	assertDec(t, "bar B cost", itemNamed(t, mustLocation(t, l, barB), "Coca-Cola Lata").CostPrice, "2.5")
	assertDec(t, "central cost", itemNamed(t, l.Central(), "Coca-Cola Lata").CostPrice, "2.5")
}

func TestLedger_ManualSystemStockAnyDefinedRule(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)

	editByName(t, l, barA, "Red Bull", core.FieldManualSystemStock, "12")
	editByName(t, l, barB, "Red Bull", core.FieldFinalCount, "3")

	central := itemNamed(t, l.Central(), "Red Bull")
	v, ok := central.SystemStock.Override()
	if !ok {
		t.Fatal("central should carry an override once any bar defines one")
	}
	assertDec(t, "central override", v, "12")

	editByName(t, l, barA, "Red Bull", core.FieldManualSystemStock, "")
	central = itemNamed(t, l.Central(), "Red Bull")
	if central.SystemStock.IsOverride() {
		t.Error("central override should clear once no bar defines one")
	}
	// Movements now come from the zeroed bars; inputs keep the seeded 50.
	assertDec(t, "central theoretical", core.TheoreticalStock(central), "50")
}

func TestLedger_BulkEqualsSequential(t *testing.T) {
	bulk, bulkBar, _ := newLedgerWithBars(t)
	seq, seqBar, _ := newLedgerWithBars(t)

	var ids []string
	for _, it := range mustLocation(t, bulk, bulkBar).Items {
		ids = append(ids, it.ID)
	}
	res, err := bulk.BulkEditField(bulkBar, ids, core.FieldSales, "4")
	if err != nil {
		t.Fatalf("BulkEditField: %v", err)
	}
	if len(res.Recomputed) != len(ids) {
		t.Errorf("expected one aggregation per product, got %d", len(res.Recomputed))
	}

	for _, it := range mustLocation(t, seq, seqBar).Items {
		if _, err := seq.EditField(seqBar, it.ID, core.FieldSales, "4"); err != nil {
			t.Fatalf("EditField: %v", err)
		}
	}

	for _, want := range seq.Central().Items {
		got := itemNamed(t, bulk.Central(), want.Name)
		for _, f := range []core.Field{core.FieldSales, core.FieldFinalCount, core.FieldInitialStock, core.FieldInputs} {
			if got.FieldValue(f) != want.FieldValue(f) {
				t.Errorf("%s %s: bulk %s, sequential %s", want.Name, f, got.FieldValue(f), want.FieldValue(f))
			}
		}
	}
}

func TestLedger_AggregationIsPerProduct(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)

	editByName(t, l, barA, "Red Bull", core.FieldFinalCount, "1")

	cola := itemNamed(t, l.Central(), "Coca-Cola Lata")
	assertDec(t, "untouched product finalCount", cola.FinalCount, "548")
	assertDec(t, "untouched product initialStock", cola.InitialStock, "500")
}

func TestLedger_MissingTargetsAreSilentNoOps(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)
	before := l.Snapshot()

	res, err := l.EditField(barA, "no-such-item", core.FieldSales, "5")
	if err != nil || res.Applied {
		t.Errorf("missing item: got %+v, %v", res, err)
	}
	res, err = l.EditField("no-such-location", "x", core.FieldSales, "5")
	if err != nil || res.Applied {
		t.Errorf("missing location: got %+v, %v", res, err)
	}

	after := l.Snapshot()
	for i := range before {
		for j := range before[i].Items {
			if before[i].Items[j].FieldValue(core.FieldSales) != after[i].Items[j].FieldValue(core.FieldSales) {
				t.Fatalf("state changed by a no-op edit")
			}
		}
	}
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	l := core.NewSeededLedger()
	snap := l.Snapshot()
	snap[0].Items[0].Name = "mutated"
	snap[0].Items = snap[0].Items[:1]

	central := l.Central()
	if central.Items[0].Name == "mutated" || len(central.Items) != 5 {
		t.Error("mutating a snapshot leaked into the ledger")
	}
}

func TestLedger_ApplySalesAggregates(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)
	bar := mustLocation(t, l, barA)

	mapping := map[string]decimal.Decimal{
		itemNamed(t, bar, "Red Bull").ID:      dec("12"),
		itemNamed(t, bar, "Absolut Vodka").ID: dec("3"),
	}
	res, err := l.ApplySales(barA, mapping)
	if err != nil {
		t.Fatalf("ApplySales: %v", err)
	}
	if len(res.ItemIDs) != 2 || len(res.Recomputed) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	assertDec(t, "central red bull sales", itemNamed(t, l.Central(), "Red Bull").Sales, "12")
	assertDec(t, "central vodka sales", itemNamed(t, l.Central(), "Absolut Vodka").Sales, "3")

	if _, err := l.ApplySales("nowhere", mapping); !errors.Is(err, core.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestLedger_AddItemJoinsProductByName(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)

	// A hand-added row with a sloppy name still joins the central product.
	cola := itemNamed(t, mustLocation(t, l, barA), "Coca-Cola Lata")
	if _, err := l.DeleteItem(barA, cola.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	added, err := l.AddItem(barA, core.InventoryItem{Name: "  coca-cola LATA ", FinalCount: dec("9")})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if added.ProductID != itemNamed(t, l.Central(), "Coca-Cola Lata").ProductID {
		t.Fatal("added item did not resolve to the central product")
	}
	if _, err := l.EditField(barA, added.ID, core.FieldSales, "1"); err != nil {
		t.Fatalf("EditField: %v", err)
	}
	assertDec(t, "central finalCount", itemNamed(t, l.Central(), "Coca-Cola Lata").FinalCount, "9")

	if _, err := l.AddItem(barA, core.InventoryItem{Name: "   "}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestLedger_RenamedItemLeavesItsProduct(t *testing.T) {
	l, barA, barB := newLedgerWithBars(t)
	editByName(t, l, barB, "Red Bull", core.FieldFinalCount, "4")
	editByName(t, l, barA, "Red Bull", core.FieldFinalCount, "6")

	res := editByName(t, l, barA, "Red Bull", core.FieldName, "Red Bull 250ml")
	if len(res.Recomputed) != 2 {
		t.Errorf("rename should recompute old and new product, got %v", res.Recomputed)
	}
	assertDec(t, "central after rename", itemNamed(t, l.Central(), "Red Bull").FinalCount, "4")

	editByName(t, l, barA, "Red Bull 250ml", core.FieldFinalCount, "8")
	assertDec(t, "central after edit", itemNamed(t, l.Central(), "Red Bull").FinalCount, "4")
}

func TestLedger_RenamedItemJoinsNamedProduct(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)

	if _, err := l.AddItem(barA, core.InventoryItem{Name: "Red Bul", Category: "Energético"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cloned := itemNamed(t, mustLocation(t, l, barA), "Red Bull")
	if _, err := l.DeleteItem(barA, cloned.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	editByName(t, l, barA, "Red Bul", core.FieldName, "Red Bull")
	editByName(t, l, barA, "Red Bull", core.FieldFinalCount, "7")

	renamed := itemNamed(t, mustLocation(t, l, barA), "Red Bull")
	if renamed.ProductID != itemNamed(t, l.Central(), "Red Bull").ProductID {
		t.Errorf("renamed row should share central's product id")
	}
	assertDec(t, "central red bull", itemNamed(t, l.Central(), "Red Bull").FinalCount, "7")
}

func TestLedger_RenameMovesRowBetweenProducts(t *testing.T) {
	l, _, barB := newLedgerWithBars(t)

	vodka := itemNamed(t, mustLocation(t, l, barB), "Absolut Vodka")
	if _, err := l.DeleteItem(barB, vodka.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	editByName(t, l, barB, "Gin Tanqueray", core.FieldFinalCount, "3")
	editByName(t, l, barB, "Gin Tanqueray", core.FieldName, "Absolut Vodka")
	editByName(t, l, barB, "Absolut Vodka", core.FieldFinalCount, "5")

	central := l.Central()
	assertDec(t, "central gin", itemNamed(t, central, "Gin Tanqueray").FinalCount, "0")
	assertDec(t, "central vodka", itemNamed(t, central, "Absolut Vodka").FinalCount, "5")
}

func TestLedger_BulkDelete(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)
	bar := mustLocation(t, l, barA)

	res, err := l.BulkDelete(barA, []string{bar.Items[0].ID, bar.Items[1].ID, "ghost"})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if len(res.ItemIDs) != 2 {
		t.Errorf("deleted ids: got %v", res.ItemIDs)
	}
	if got := len(mustLocation(t, l, barA).Items); got != 3 {
		t.Errorf("remaining items: got %d, want 3", got)
	}
	if got := len(l.Central().Items); got != 5 {
		t.Errorf("central must be untouched, has %d items", got)
	}
}

func TestLedger_RenameCategory(t *testing.T) {
	l, barA, _ := newLedgerWithBars(t)

	if n := l.RenameCategory("Destilados", "  "); n != 0 {
		t.Errorf("blank rename changed %d items", n)
	}
	if n := l.RenameCategory("Destilados", "Destilados"); n != 0 {
		t.Errorf("same-name rename changed %d items", n)
	}
	// Gin and Vodka in central plus both bars.
	if n := l.RenameCategory("Destilados", " Spirits "); n != 6 {
		t.Errorf("renamed items: got %d, want 6", n)
	}
	if got := itemNamed(t, mustLocation(t, l, barA), "Gin Tanqueray").Category; got != "Spirits" {
		t.Errorf("category: got %q, want Spirits", got)
	}
}
