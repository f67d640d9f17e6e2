package web

import (
	"time"

	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/shopspring/decimal"
)

// JSON shapes returned by the API. Decimals encode as strings.

type locationSummaryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ItemCount int    `json:"itemCount"`
	Active    bool   `json:"active"`
}

type itemView struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"productId"`
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	Unit              string           `json:"unit"`
	CostPrice         decimal.Decimal  `json:"costPrice"`
	SellPrice         decimal.Decimal  `json:"sellPrice"`
	InitialStock      decimal.Decimal  `json:"initialStock"`
	Inputs            decimal.Decimal  `json:"inputs"`
	TransfersIn       decimal.Decimal  `json:"transfersIn"`
	TransfersOut      decimal.Decimal  `json:"transfersOut"`
	Returns           decimal.Decimal  `json:"returns"`
	Losses            decimal.Decimal  `json:"losses"`
	Sales             decimal.Decimal  `json:"sales"`
	FinalCount        decimal.Decimal  `json:"finalCount"`
	MinStock          decimal.Decimal  `json:"minStock"`
	ManualSystemStock *decimal.Decimal `json:"manualSystemStock"`
	AuditNotes        string           `json:"auditNotes"`

	TheoreticalStock    decimal.Decimal `json:"theoreticalStock"`
	Difference          decimal.Decimal `json:"difference"`
	FinancialDifference decimal.Decimal `json:"financialDifference"`
	Revenue             decimal.Decimal `json:"revenue"`
	COGS                decimal.Decimal `json:"cogs"`
	Profit              decimal.Decimal `json:"profit"`
	Margin              decimal.Decimal `json:"margin"`
	TotalStockValue     decimal.Decimal `json:"totalStockValue"`
	RealConsumption     decimal.Decimal `json:"realConsumption"`
	CostOfPeriod        decimal.Decimal `json:"costOfPeriod"`
	HasDiscrepancy      bool            `json:"hasDiscrepancy"`
	Critical            bool            `json:"critical"`
}

type summaryView struct {
	TotalStockValue       decimal.Decimal `json:"totalStockValue"`
	TotalDiscrepancyValue decimal.Decimal `json:"totalDiscrepancyValue"`
	ItemsWithDiscrepancy  int             `json:"itemsWithDiscrepancy"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	TotalProfit           decimal.Decimal `json:"totalProfit"`
}

type locationView struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Role    string      `json:"role"`
	Active  bool        `json:"active"`
	Items   []itemView  `json:"items"`
	Summary summaryView `json:"summary"`
}

type editView struct {
	Applied      bool     `json:"applied"`
	LocationID   string   `json:"locationId"`
	ItemIDs      []string `json:"itemIds"`
	PropagatedTo []string `json:"propagatedTo"`
	Recomputed   []string `json:"recomputed"`
}

type previewLineView struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	OldSales decimal.Decimal `json:"oldSales"`
	NewSales decimal.Decimal `json:"newSales"`
}

type importView struct {
	LocationID string            `json:"locationId"`
	ParsedRows int               `json:"parsedRows"`
	Lines      []previewLineView `json:"lines"`
	Committed  bool              `json:"committed"`
	Edit       *editView         `json:"edit,omitempty"`
}

type purchaseView struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Supplier      string          `json:"supplier"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	ProductName   string          `json:"productName"`
	Category      string          `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

type purchaseStatsView struct {
	TotalPurchases    decimal.Decimal `json:"totalPurchases"`
	PaymentsThisMonth decimal.Decimal `json:"paymentsThisMonth"`
	PaymentsNextMonth decimal.Decimal `json:"paymentsNextMonth"`
}

type auditView struct {
	LocationID   string            `json:"locationId"`
	LocationName string            `json:"locationName"`
	Fallback     bool              `json:"fallback"`
	Error        string            `json:"error,omitempty"`
	Report       *core.AuditReport `json:"report"`
}

func toItemView(c core.CalculatedItem) itemView {
	v := itemView{
		ID:                  c.ID,
		ProductID:           c.ProductID,
		Code:                c.Code,
		Name:                c.Name,
		Category:            c.Category,
		Unit:                c.Unit,
		CostPrice:           c.CostPrice,
		SellPrice:           c.SellPrice,
		InitialStock:        c.InitialStock,
		Inputs:              c.Inputs,
		TransfersIn:         c.TransfersIn,
		TransfersOut:        c.TransfersOut,
		Returns:             c.Returns,
		Losses:              c.Losses,
		Sales:               c.Sales,
		FinalCount:          c.FinalCount,
		MinStock:            c.MinStock,
		AuditNotes:          c.AuditNotes,
		TheoreticalStock:    c.TheoreticalStock,
		Difference:          c.Difference,
		FinancialDifference: c.FinancialDifference,
		Revenue:             c.Revenue,
		COGS:                c.COGS,
		Profit:              c.Profit,
		Margin:              c.Margin,
		TotalStockValue:     c.TotalStockValue,
		RealConsumption:     c.RealConsumption,
		CostOfPeriod:        c.CostOfPeriod,
		HasDiscrepancy:      c.HasDiscrepancy(),
		Critical:            c.IsCritical(),
	}
	if o, ok := c.SystemStock.Override(); ok {
		v.ManualSystemStock = &o
	}
	return v
}

func toLocationView(res *app.LocationResult) locationView {
	items := make([]itemView, len(res.Items))
	for i, c := range res.Items {
		items[i] = toItemView(c)
	}
	return locationView{
		ID:     res.Location.ID,
		Name:   res.Location.Name,
		Role:   string(res.Location.Role),
		Active: res.Active,
		Items:  items,
		Summary: summaryView{
			TotalStockValue:       res.Summary.TotalStockValue,
			TotalDiscrepancyValue: res.Summary.TotalDiscrepancyValue,
			ItemsWithDiscrepancy:  res.Summary.ItemsWithDiscrepancy,
			TotalRevenue:          res.Summary.TotalRevenue,
			TotalProfit:           res.Summary.TotalProfit,
		},
	}
}

func toEditView(e *app.EditResult) *editView {
	v := &editView{
		Applied:      e.Applied,
		LocationID:   e.LocationID,
		ItemIDs:      e.ItemIDs,
		PropagatedTo: e.PropagatedTo,
		Recomputed:   e.Recomputed,
	}
	if v.ItemIDs == nil {
		v.ItemIDs = []string{}
	}
	if v.PropagatedTo == nil {
		v.PropagatedTo = []string{}
	}
	if v.Recomputed == nil {
		v.Recomputed = []string{}
	}
	return v
}

func toImportView(p *app.ImportPreviewResult) importView {
	lines := make([]previewLineView, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = previewLineView{ItemID: l.ItemID, Name: l.Name, OldSales: l.OldSales, NewSales: l.NewSales}
	}
	return importView{LocationID: p.LocationID, ParsedRows: p.ParsedRows, Lines: lines}
}

func toPurchaseView(p core.PurchaseRecord) purchaseView {
	v := purchaseView{
		ID:            p.ID,
		Date:          p.Date,
		InvoiceNumber: p.InvoiceNumber,
		Supplier:      p.Supplier,
		ProductName:   p.ProductName,
		Category:      p.Category,
		Quantity:      p.Quantity,
		UnitCost:      p.UnitCost,
		TotalCost:     p.TotalCost,
	}
	if !p.PaymentDate.IsZero() {
		d := p.PaymentDate
		v.PaymentDate = &d
	}
	return v
}

func toPurchaseStatsView(s *core.PurchaseStats) purchaseStatsView {
	return purchaseStatsView{
		TotalPurchases:    s.TotalPurchases,
		PaymentsThisMonth: s.PaymentsThisMonth,
		PaymentsNextMonth: s.PaymentsNextMonth,
	}
}
