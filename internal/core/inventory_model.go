package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CentralLocationID is the id of the seeded central warehouse.
const CentralLocationID = "central"

// Role distinguishes the central warehouse from the bars it supplies.
type Role string

const (
	RoleCentral Role = "central"
	RoleBranch  Role = "branch"
)

// DetectRole infers a role for locations loaded without one.
// Only used at load/seed time; renaming a location never changes its role.
func DetectRole(id, name string) Role {
	if id == CentralLocationID {
		return RoleCentral
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "central") || strings.Contains(lower, "geral") {
		return RoleCentral
	}
	return RoleBranch
}

// SystemStock is either computed from the item's movements (Automatic) or
// pinned to a value typed in by the user (Override).
type SystemStock struct {
	overridden bool
	value      decimal.Decimal
}

// AutomaticStock returns a SystemStock that derives from the movement formula.
func AutomaticStock() SystemStock { return SystemStock{} }

// OverrideStock pins the system stock to v.
func OverrideStock(v decimal.Decimal) SystemStock {
	return SystemStock{overridden: true, value: v}
}

// Override returns the pinned value and whether one is set.
func (s SystemStock) Override() (decimal.Decimal, bool) {
	return s.value, s.overridden
}

// IsOverride reports whether the stock is pinned.
func (s SystemStock) IsOverride() bool { return s.overridden }

// InventoryItem is one product's ledger row at one location.
type InventoryItem struct {
	ID        string
	ProductID string // shared across locations for the same product
	Code      string
	Name      string
	Category  string
	Unit      string

	CostPrice decimal.Decimal
	SellPrice decimal.Decimal

	InitialStock decimal.Decimal
	Inputs       decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
	Returns      decimal.Decimal
	Losses       decimal.Decimal
	Sales        decimal.Decimal
	FinalCount   decimal.Decimal
	MinStock     decimal.Decimal

	SystemStock SystemStock
	AuditNotes  string
}

// Location is a stock-holding site: the central warehouse or a bar.
type Location struct {
	ID    string
	Name  string
	Role  Role
	Items []InventoryItem
}

// IsCentral reports whether the location is the central warehouse.
func (l Location) IsCentral() bool { return l.Role == RoleCentral }

// FindItem returns the index of the item with the given id, or -1.
func (l Location) FindItem(itemID string) int {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (l Location) clone() Location {
	items := make([]InventoryItem, len(l.Items))
	copy(items, l.Items)
	l.Items = items
	return l
}

// PurchaseRecord is an immutable entry in the purchase log.
type PurchaseRecord struct {
	ID            string
	Date          time.Time
	InvoiceNumber string
	Supplier      string
	PaymentDate   time.Time
	ProductName   string
	Category      string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal // Quantity * UnitCost
}

// DefaultCategories is the category list offered by the UI.
// Items may carry any other string.
var DefaultCategories = []string{
	"Refrigerante",
	"Energético",
	"Cerveja",
	"Destilados",
	"Vinho/Espumante",
	"Whisky",
	"Tequila",
	"Outros",
	"Alimentos",
}

// NormalizeName is the join key used to resolve products by name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
