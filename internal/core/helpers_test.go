package core_test

import (
	"testing"

	"barstock/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func itemNamed(t *testing.T, loc core.Location, name string) core.InventoryItem {
	t.Helper()
	for _, it := range loc.Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("location %s has no item %q", loc.Name, name)
	return core.InventoryItem{}
}

func mustLocation(t *testing.T, l *core.Ledger, id string) core.Location {
	t.Helper()
	loc, err := l.Location(id)
	if err != nil {
		t.Fatalf("Location(%s): %v", id, err)
	}
	return loc
}

func assertDec(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s, want %s", label, got, want)
	}
}

// newLedgerWithBars returns a seeded ledger plus two bars cloned from central.
func newLedgerWithBars(t *testing.T) (*core.Ledger, string, string) {
	t.Helper()
	l := core.NewSeededLedger()
	a, err := l.CreateLocation("Bar A")
	if err != nil {
		t.Fatalf("CreateLocation(Bar A): %v", err)
	}
	b, err := l.CreateLocation("Bar B")
	if err != nil {
		t.Fatalf("CreateLocation(Bar B): %v", err)
	}
	return l, a.ID, b.ID
}

func editByName(t *testing.T, l *core.Ledger, locationID, name string, f core.Field, value string) core.EditResult {
	t.Helper()
	it := itemNamed(t, mustLocation(t, l, locationID), name)
	res, err := l.EditField(locationID, it.ID, f, value)
	if err != nil {
		t.Fatalf("EditField(%s, %s, %s): %v", locationID, name, f, err)
	}
	return res
}
