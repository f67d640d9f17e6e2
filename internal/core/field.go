package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names an editable column of an InventoryItem.
type Field string

const (
	FieldCode              Field = "code"
	FieldName              Field = "name"
	FieldCategory          Field = "category"
	FieldUnit              Field = "unit"
	FieldAuditNotes        Field = "auditNotes"
	FieldCostPrice         Field = "costPrice"
	FieldSellPrice         Field = "sellPrice"
	FieldInitialStock      Field = "initialStock"
	FieldInputs            Field = "inputs"
	FieldTransfersIn       Field = "transfersIn"
	FieldTransfersOut      Field = "transfersOut"
	FieldReturns           Field = "returns"
	FieldLosses            Field = "losses"
	FieldSales             Field = "sales"
	FieldFinalCount        Field = "finalCount"
	FieldMinStock          Field = "minStock"
	FieldManualSystemStock Field = "manualSystemStock"
)

var numericFields = map[Field]bool{
	FieldCostPrice:    true,
	FieldSellPrice:    true,
	FieldInitialStock: true,
	FieldInputs:       true,
	FieldTransfersIn:  true,
	FieldTransfersOut: true,
	FieldReturns:      true,
	FieldLosses:       true,
	FieldSales:        true,
	FieldFinalCount:   true,
	FieldMinStock:     true,
}

var textFields = map[Field]bool{
	FieldCode:       true,
	FieldName:       true,
	FieldCategory:   true,
	FieldUnit:       true,
	FieldAuditNotes: true,
}

// ParseField validates a field name coming from an adapter.
func ParseField(s string) (Field, error) {
	f := Field(strings.TrimSpace(s))
	if numericFields[f] || textFields[f] || f == FieldManualSystemStock {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// IsAggregatable reports whether a branch edit to f must be rolled up into central.
func (f Field) IsAggregatable() bool {
	switch f {
	case FieldSales, FieldInitialStock, FieldInputs, FieldTransfersIn, FieldTransfersOut,
		FieldReturns, FieldLosses, FieldFinalCount, FieldManualSystemStock:
		return true
	}
	return false
}

// IsPrice reports whether a central edit to f fans out to every location.
func (f Field) IsPrice() bool {
	return f == FieldCostPrice || f == FieldSellPrice
}

// IsNumeric reports whether f holds a decimal quantity or price.
func (f Field) IsNumeric() bool { return numericFields[f] }

// parseQuantity coerces user input; anything unparseable becomes zero.
// A decimal comma is accepted since counts are typed by hand.
func parseQuantity(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ApplyField writes raw into field f of the item, coercing it by field type.
func (it *InventoryItem) ApplyField(f Field, raw string) error {
	if f == FieldManualSystemStock {
		if strings.TrimSpace(raw) == "" {
			it.SystemStock = AutomaticStock()
		} else {
			it.SystemStock = OverrideStock(parseQuantity(raw))
		}
		return nil
	}
	if f.IsNumeric() {
		*it.numericField(f) = parseQuantity(raw)
		return nil
	}
	switch f {
	case FieldCode:
		it.Code = raw
	case FieldName:
		it.Name = raw
	case FieldCategory:
		it.Category = raw
	case FieldUnit:
		it.Unit = raw
	case FieldAuditNotes:
		it.AuditNotes = raw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// FieldValue renders a field the way it would be typed back in.
func (it InventoryItem) FieldValue(f Field) string {
	if f == FieldManualSystemStock {
		if v, ok := it.SystemStock.Override(); ok {
			return v.String()
		}
		return ""
	}
	if f.IsNumeric() {
		return it.numericField(f).String()
	}
	switch f {
	case FieldCode:
		return it.Code
	case FieldName:
		return it.Name
	case FieldCategory:
		return it.Category
	case FieldUnit:
		return it.Unit
	case FieldAuditNotes:
		return it.AuditNotes
	}
	return ""
}

func (it *InventoryItem) numericField(f Field) *decimal.Decimal {
	switch f {
	case FieldCostPrice:
		return &it.CostPrice
	case FieldSellPrice:
		return &it.SellPrice
	case FieldInitialStock:
		return &it.InitialStock
	case FieldInputs:
		return &it.Inputs
	case FieldTransfersIn:
		return &it.TransfersIn
	case FieldTransfersOut:
		return &it.TransfersOut
	case FieldReturns:
		return &it.Returns
	case FieldLosses:
		return &it.Losses
	case FieldSales:
		return &it.Sales
	case FieldFinalCount:
		return &it.FinalCount
	case FieldMinStock:
		return &it.MinStock
	}
	panic("core: not a numeric field: " + string(f))
}
