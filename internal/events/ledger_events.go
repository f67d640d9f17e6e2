package events

import (
	"context"

	"barstock/internal/core"
)

// ItemEditedEvent is published for every applied field edit.
type ItemEditedEvent struct {
	LocationID string   `json:"location_id"`
	ItemIDs    []string `json:"item_ids"`
	Field      string   `json:"field"`
	Value      string   `json:"value"`
}

// CentralRecomputedEvent lists the products whose central line was re-aggregated.
type CentralRecomputedEvent struct {
	ProductIDs []string `json:"product_ids"`
	Trigger    string   `json:"trigger"`
}

// PricePropagatedEvent lists the branches that received a central price.
type PricePropagatedEvent struct {
	Field       string   `json:"field"`
	Value       string   `json:"value"`
	LocationIDs []string `json:"location_ids"`
}

// PurchaseRecordedEvent mirrors a stored purchase record.
type PurchaseRecordedEvent struct {
	PurchaseID    string `json:"purchase_id"`
	InvoiceNumber string `json:"invoice_number"`
	Supplier      string `json:"supplier"`
	ProductName   string `json:"product_name"`
	Quantity      string `json:"quantity"`
	UnitCost      string `json:"unit_cost"`
	TotalCost     string `json:"total_cost"`
	Updated       int    `json:"updated_items"`
}

// SalesImportedEvent summarises a committed import.
type SalesImportedEvent struct {
	LocationID string `json:"location_id"`
	Matched    int    `json:"matched"`
}

// LocationEvent covers create, rename and delete.
type LocationEvent struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name,omitempty"`
}

// PublishEdit emits item.edited plus any derived propagation or recompute events.
func (p *Publisher) PublishEdit(ctx context.Context, trigger string, field core.Field, value string, res core.EditResult) {
	if p == nil || !res.Applied {
		return
	}
	if field != "" {
		p.Publish(ctx, ItemEdited, ItemEditedEvent{
			LocationID: res.LocationID,
			ItemIDs:    res.ItemIDs,
			Field:      string(field),
			Value:      value,
		})
	}
	if len(res.PropagatedTo) > 0 {
		p.Publish(ctx, PricePropagated, PricePropagatedEvent{
			Field:       string(field),
			Value:       value,
			LocationIDs: res.PropagatedTo,
		})
	}
	if len(res.Recomputed) > 0 {
		p.Publish(ctx, CentralRecompute, CentralRecomputedEvent{
			ProductIDs: res.Recomputed,
			Trigger:    trigger,
		})
	}
}

// PublishPurchase emits purchase.recorded and the price propagation it caused.
func (p *Publisher) PublishPurchase(ctx context.Context, rec core.PurchaseRecord, res core.EditResult) {
	if p == nil {
		return
	}
	p.Publish(ctx, PurchaseRecorded, PurchaseRecordedEvent{
		PurchaseID:    rec.ID,
		InvoiceNumber: rec.InvoiceNumber,
		Supplier:      rec.Supplier,
		ProductName:   rec.ProductName,
		Quantity:      rec.Quantity.String(),
		UnitCost:      rec.UnitCost.String(),
		TotalCost:     rec.TotalCost.StringFixed(2),
		Updated:       len(res.ItemIDs),
	})
	if len(res.PropagatedTo) > 0 {
		p.Publish(ctx, PricePropagated, PricePropagatedEvent{
			Field:       string(core.FieldCostPrice),
			Value:       rec.UnitCost.String(),
			LocationIDs: res.PropagatedTo,
		})
	}
}

// PublishSalesImport emits sales.imported and any central recompute.
func (p *Publisher) PublishSalesImport(ctx context.Context, res core.EditResult) {
	if p == nil || !res.Applied {
		return
	}
	p.Publish(ctx, SalesImported, SalesImportedEvent{LocationID: res.LocationID, Matched: len(res.ItemIDs)})
	p.PublishEdit(ctx, SalesImported, "", "", res)
}

// PublishLocation emits one of the location lifecycle keys.
func (p *Publisher) PublishLocation(ctx context.Context, eventType, id, name string) {
	if p == nil {
		return
	}
	p.Publish(ctx, eventType, LocationEvent{LocationID: id, Name: name})
}
