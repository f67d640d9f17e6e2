package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLocationRequest is the input for opening a new bar.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

// RenameLocationRequest renames any location, central included.
type RenameLocationRequest struct {
	LocationID string `json:"-" validate:"required"`
	Name       string `json:"name" validate:"required,max=80"`
}

// AddItemRequest is the input for adding a product row to a location.
type AddItemRequest struct {
	LocationID string          `json:"-" validate:"required"`
	Code       string          `json:"code"`
	Name       string          `json:"name" validate:"required,max=120"`
	Category   string          `json:"category"`
	Unit       string          `json:"unit"`
	CostPrice  decimal.Decimal `json:"costPrice"`
	SellPrice  decimal.Decimal `json:"sellPrice"`
	MinStock   decimal.Decimal `json:"minStock"`
}

// EditItemRequest sets one field of one item. Value is the raw user input;
// numeric fields accept a decimal comma and read unparseable text as zero.
type EditItemRequest struct {
	LocationID string `json:"-" validate:"required"`
	ItemID     string `json:"-" validate:"required"`
	Field      string `json:"field" validate:"required"`
	Value      string `json:"value"`
}

// BulkEditRequest sets the same field on several items of one location.
type BulkEditRequest struct {
	LocationID string   `json:"-" validate:"required"`
	ItemIDs    []string `json:"itemIds" validate:"required,min=1,dive,required"`
	Field      string   `json:"field" validate:"required"`
	Value      string   `json:"value"`
}

// DeleteItemsRequest removes items from one location.
type DeleteItemsRequest struct {
	LocationID string   `json:"-" validate:"required"`
	ItemIDs    []string `json:"itemIds" validate:"required,min=1,dive,required"`
}

// ImportSalesRequest carries pasted sales text for one location.
type ImportSalesRequest struct {
	LocationID string `json:"-" validate:"required"`
	Format     string `json:"format" validate:"required,oneof=csv json"`
	Text       string `json:"text" validate:"required"`
}

// RecordPurchaseRequest is one invoice line from a supplier.
type RecordPurchaseRequest struct {
	Date          time.Time       `json:"date"`
	InvoiceNumber string          `json:"invoiceNumber" validate:"required"`
	Supplier      string          `json:"supplier"`
	PaymentDate   time.Time       `json:"paymentDate"`
	ProductName   string          `json:"productName" validate:"required"`
	Category      string          `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
}

// RenameCategoryRequest renames a category on every item of every location.
type RenameCategoryRequest struct {
	OldName string `json:"oldName" validate:"required"`
	NewName string `json:"newName" validate:"required,nefield=OldName"`
}
