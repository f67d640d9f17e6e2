package core_test

import (
	"testing"

	"barstock/internal/core"
)

func aggregationFixture() []core.Location {
	return []core.Location{
		{ID: "central", Name: "Estoque Geral", Role: core.RoleCentral, Items: []core.InventoryItem{
			{ID: "c1", ProductID: "cola", Name: "Cola", FinalCount: dec("50"), Inputs: dec("40")},
			{ID: "c2", ProductID: "gin", Name: "Gin", FinalCount: dec("8")},
		}},
		{ID: "a", Name: "Bar A", Role: core.RoleBranch, Items: []core.InventoryItem{
			{ID: "a1", ProductID: "cola", Name: "Cola", FinalCount: dec("10"), Sales: dec("3"), Inputs: dec("99")},
			{ID: "a2", ProductID: "cola", Name: "cola", FinalCount: dec("1000")},
		}},
		{ID: "b", Name: "Bar B", Role: core.RoleBranch, Items: []core.InventoryItem{
			{ID: "b1", ProductID: "cola", Name: " COLA ", FinalCount: dec("5"), SystemStock: core.OverrideStock(dec("6"))},
			{ID: "b2", ProductID: "gin", Name: "Gin", FinalCount: dec("2")},
		}},
	}
}

func TestAggregateCentral_SumsFirstMatchPerBranch(t *testing.T) {
	in := aggregationFixture()
	out := core.AggregateCentral(in, "cola")

	cola := out[0].Items[0]
	assertDec(t, "finalCount", cola.FinalCount, "15")
	assertDec(t, "sales", cola.Sales, "3")
	assertDec(t, "inputs", cola.Inputs, "40")
	v, ok := cola.SystemStock.Override()
	if !ok {
		t.Fatal("override expected when any branch defines one")
	}
	assertDec(t, "override", v, "6")

	assertDec(t, "gin untouched", out[0].Items[1].FinalCount, "8")
	assertDec(t, "input not mutated", in[0].Items[0].FinalCount, "50")

	if &out[1].Items[0] != &in[1].Items[0] {
		t.Error("branch locations should be shared, not copied")
	}
}

func TestAggregateCentral_NoCentralItemIsNoOp(t *testing.T) {
	in := aggregationFixture()
	out := core.AggregateCentral(in, "tonic")
	if &out[0] != &in[0] {
		t.Error("expected the input slice back when central lacks the product")
	}
}

func TestAggregateCentral_NoBranchItemsGiveZero(t *testing.T) {
	in := aggregationFixture()
	in[2].Items = in[2].Items[:1]
	out := core.AggregateCentral(in, "gin")
	assertDec(t, "gin finalCount", out[0].Items[1].FinalCount, "0")
}

func TestAggregateCentral_Idempotent(t *testing.T) {
	once := core.AggregateCentral(aggregationFixture(), "cola")
	twice := core.AggregateCentral(core.AggregateCentral(aggregationFixture(), "cola"), "cola")
	for _, f := range []core.Field{core.FieldFinalCount, core.FieldSales, core.FieldManualSystemStock} {
		if once[0].Items[0].FieldValue(f) != twice[0].Items[0].FieldValue(f) {
			t.Errorf("%s differs after re-aggregation", f)
		}
	}
}

func TestAggregateCentralByName(t *testing.T) {
	out := core.AggregateCentralByName(aggregationFixture(), "  GIN ")
	assertDec(t, "gin finalCount", out[0].Items[1].FinalCount, "2")
}
