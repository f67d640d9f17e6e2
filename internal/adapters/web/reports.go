package web

import (
	"net/http"
	"sort"
	"time"

	"barstock/internal/app"

	"github.com/shopspring/decimal"
)

// ── Purchases & categories ────────────────────────────────────────────────────

// listPurchases handles GET /api/purchases.
func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListPurchases(r.Context(), time.Now())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]purchaseView, len(res.Purchases))
	for i, p := range res.Purchases {
		out[i] = toPurchaseView(p)
	}
	writeJSON(w, map[string]any{"purchases": out, "stats": toPurchaseStatsView(res.Stats)})
}

// recordPurchase handles POST /api/purchases.
func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req app.RecordPurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.RecordPurchase(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	propagated := res.PropagatedTo
	if propagated == nil {
		propagated = []string{}
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"purchase":     toPurchaseView(res.Purchase),
		"updatedItems": res.UpdatedItems,
		"propagatedTo": propagated,
	})
}

// renameCategory handles POST /api/categories/rename.
func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req app.RenameCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.svc.RenameCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]int{"updated": n})
}

// ── Reports ───────────────────────────────────────────────────────────────────

type productTotalsView struct {
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	FinalStock       decimal.Decimal `json:"finalStock"`
	StockValue       decimal.Decimal `json:"stockValue"`
	Consumption      decimal.Decimal `json:"consumption"`
	CostOfPeriod     decimal.Decimal `json:"costOfPeriod"`
	DiscrepancyValue decimal.Decimal `json:"discrepancyValue"`
	Locations        int             `json:"locations"`
}

type categoryCostView struct {
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
}

// financialReport handles GET /api/reports/financial?sort=<field>&order=asc|desc.
func (h *Handler) financialReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.svc.GetFinancialReport(r.Context(), q.Get("sort"), q.Get("order") != "asc")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	products := make([]productTotalsView, len(report.Products))
	for i, p := range report.Products {
		products[i] = productTotalsView{
			ProductID:        p.ProductID,
			Name:             p.Name,
			Category:         p.Category,
			Unit:             p.Unit,
			CostPrice:        p.CostPrice,
			FinalStock:       p.FinalStock,
			StockValue:       p.StockValue,
			Consumption:      p.Consumption,
			CostOfPeriod:     p.CostOfPeriod,
			DiscrepancyValue: p.DiscrepancyValue,
			Locations:        p.LocationsCount,
		}
	}
	categories := make([]categoryCostView, len(report.Categories))
	for i, c := range report.Categories {
		categories[i] = categoryCostView{Category: c.Category, Cost: c.Cost}
	}
	writeJSON(w, map[string]any{
		"products":              products,
		"categories":            categories,
		"totalStockValue":       report.TotalStockValue,
		"totalCostOfPeriod":     report.TotalCostOfPeriod,
		"totalDiscrepancyValue": report.TotalDiscrepancyValue,
	})
}

type productSalesView struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	QtySold decimal.Decimal `json:"qtySold"`
}

type demandView struct {
	Product string          `json:"product"`
	Demand  decimal.Decimal `json:"demand"`
}

// dashboard handles GET /api/reports/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	d := res.Dashboard
	top := make([]productSalesView, len(d.TopProducts))
	for i, p := range d.TopProducts {
		top[i] = productSalesView{Name: p.Name, Revenue: p.Revenue, QtySold: p.QtySold}
	}
	demand := make([]demandView, 0, len(res.BarDemand))
	for name, qty := range res.BarDemand {
		demand = append(demand, demandView{Product: name, Demand: qty})
	}
	sort.Slice(demand, func(i, j int) bool { return demand[i].Product < demand[j].Product })

	writeJSON(w, map[string]any{
		"totalRevenue":        d.TotalRevenue,
		"totalCogs":           d.TotalCOGS,
		"totalStockValue":     d.TotalStockValue,
		"totalItemsStock":     d.TotalItemsStock,
		"totalPurchasedValue": d.TotalPurchasedValue,
		"uniqueInvoices":      d.UniqueInvoices,
		"profit":              d.Profit,
		"margin":              d.Margin,
		"topProducts":         top,
		"barDemand":           demand,
	})
}

// purchaseStats handles GET /api/reports/purchases.
func (h *Handler) purchaseStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListPurchases(r.Context(), time.Now())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toPurchaseStatsView(res.Stats))
}
