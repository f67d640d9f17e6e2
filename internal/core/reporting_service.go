package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ProductTotals is one product summed over every location that stocks it.
type ProductTotals struct {
	ProductID        string
	Name             string
	Category         string
	Unit             string
	CostPrice        decimal.Decimal // first location's cost
	FinalStock       decimal.Decimal
	StockValue       decimal.Decimal
	Consumption      decimal.Decimal
	CostOfPeriod     decimal.Decimal // CMV
	DiscrepancyValue decimal.Decimal
	LocationsCount   int
}

// CategoryCost is the period cost of one category.
type CategoryCost struct {
	Category string
	Cost     decimal.Decimal
}

// FinancialReport is the consolidated cost view across all locations.
type FinancialReport struct {
	Products              []ProductTotals
	Categories            []CategoryCost // highest cost first
	TotalStockValue       decimal.Decimal
	TotalCostOfPeriod     decimal.Decimal
	TotalDiscrepancyValue decimal.Decimal
}

// ProductSales is one entry of the dashboard's best-seller list.
type ProductSales struct {
	Name    string
	Revenue decimal.Decimal
	QtySold decimal.Decimal
}

// Dashboard is the headline view across all locations and purchases.
type Dashboard struct {
	TotalRevenue        decimal.Decimal
	TotalCOGS           decimal.Decimal
	TotalStockValue     decimal.Decimal
	TotalItemsStock     decimal.Decimal
	TotalPurchasedValue decimal.Decimal
	UniqueInvoices      int
	Profit              decimal.Decimal
	Margin              decimal.Decimal // percent, zero without revenue
	TopProducts         []ProductSales  // by quantity sold, at most 10
}

// PurchaseStats totals the purchase log by payment due date.
type PurchaseStats struct {
	TotalPurchases    decimal.Decimal
	PaymentsThisMonth decimal.Decimal
	PaymentsNextMonth decimal.Decimal
}

// ErrUnknownSortField is returned for a sort column the financial report lacks.
var ErrUnknownSortField = errors.New("unknown sort field")

// FinancialSortFields are the columns a FinancialReport can be ordered by.
var FinancialSortFields = []string{
	"name", "category", "finalStock", "stockValue", "consumption", "costOfPeriod", "discrepancyValue", "locations",
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reports over the ledger's current state.
type ReportingService interface {
	GetFinancialReport(sortField string, desc bool) (*FinancialReport, error)
	GetDashboard() *Dashboard
	GetPurchaseStats(now time.Time) *PurchaseStats
	GetBarDemand() map[string]decimal.Decimal
}

type reportingService struct {
	ledger *Ledger
}

func NewReportingService(ledger *Ledger) ReportingService {
	return &reportingService{ledger: ledger}
}

func (s *reportingService) GetFinancialReport(sortField string, desc bool) (*FinancialReport, error) {
	return BuildFinancialReport(s.ledger.Snapshot(), sortField, desc)
}

func (s *reportingService) GetDashboard() *Dashboard {
	return BuildDashboard(s.ledger.Snapshot(), s.ledger.Purchases())
}

func (s *reportingService) GetPurchaseStats(now time.Time) *PurchaseStats {
	return BuildPurchaseStats(s.ledger.Purchases(), now)
}

func (s *reportingService) GetBarDemand() map[string]decimal.Decimal {
	return BarDemand(s.ledger.Snapshot())
}

// ── Builders ──────────────────────────────────────────────────────────────────

// BuildFinancialReport sums every item of every location per product.
// An empty sortField orders by cost of period, highest first.
func BuildFinancialReport(locations []Location, sortField string, desc bool) (*FinancialReport, error) {
	if sortField == "" {
		sortField, desc = "costOfPeriod", true
	}
	less, err := productLess(sortField)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	report := &FinancialReport{}
	for _, loc := range locations {
		for _, c := range CalculateAll(loc.Items) {
			key := c.ProductID
			if key == "" {
				key = NormalizeName(c.Name)
			}
			i, ok := index[key]
			if !ok {
				i = len(report.Products)
				index[key] = i
				report.Products = append(report.Products, ProductTotals{
					ProductID: c.ProductID,
					Name:      c.Name,
					Category:  c.Category,
					Unit:      c.Unit,
					CostPrice: c.CostPrice,
				})
			}
			p := &report.Products[i]
			p.FinalStock = p.FinalStock.Add(c.FinalCount)
			p.StockValue = p.StockValue.Add(c.TotalStockValue)
			p.Consumption = p.Consumption.Add(c.RealConsumption)
			p.CostOfPeriod = p.CostOfPeriod.Add(c.CostOfPeriod)
			p.DiscrepancyValue = p.DiscrepancyValue.Add(c.FinancialDifference)
			p.LocationsCount++

			report.TotalStockValue = report.TotalStockValue.Add(c.TotalStockValue)
			report.TotalCostOfPeriod = report.TotalCostOfPeriod.Add(c.CostOfPeriod)
			report.TotalDiscrepancyValue = report.TotalDiscrepancyValue.Add(c.FinancialDifference)
		}
	}

	sort.SliceStable(report.Products, func(i, j int) bool {
		if desc {
			return less(report.Products[j], report.Products[i])
		}
		return less(report.Products[i], report.Products[j])
	})

	byCategory := make(map[string]decimal.Decimal)
	var order []string
	for _, p := range report.Products {
		if _, ok := byCategory[p.Category]; !ok {
			order = append(order, p.Category)
		}
		byCategory[p.Category] = byCategory[p.Category].Add(p.CostOfPeriod)
	}
	for _, cat := range order {
		report.Categories = append(report.Categories, CategoryCost{Category: cat, Cost: byCategory[cat]})
	}
	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].Cost.GreaterThan(report.Categories[j].Cost)
	})
	return report, nil
}

func productLess(field string) (func(a, b ProductTotals) bool, error) {
	switch field {
	case "name":
		return func(a, b ProductTotals) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }, nil
	case "category":
		return func(a, b ProductTotals) bool { return a.Category < b.Category }, nil
	case "finalStock":
		return func(a, b ProductTotals) bool { return a.FinalStock.LessThan(b.FinalStock) }, nil
	case "stockValue":
		return func(a, b ProductTotals) bool { return a.StockValue.LessThan(b.StockValue) }, nil
	case "consumption":
		return func(a, b ProductTotals) bool { return a.Consumption.LessThan(b.Consumption) }, nil
	case "costOfPeriod":
		return func(a, b ProductTotals) bool { return a.CostOfPeriod.LessThan(b.CostOfPeriod) }, nil
	case "discrepancyValue":
		return func(a, b ProductTotals) bool { return a.DiscrepancyValue.LessThan(b.DiscrepancyValue) }, nil
	case "locations":
		return func(a, b ProductTotals) bool { return a.LocationsCount < b.LocationsCount }, nil
	}
	return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownSortField, field, strings.Join(FinancialSortFields, ", "))
}

// BuildDashboard computes revenue, cost and stock headlines over every location.
func BuildDashboard(locations []Location, purchases []PurchaseRecord) *Dashboard {
	d := &Dashboard{}

	invoices := make(map[string]bool)
	for _, p := range purchases {
		invoices[p.InvoiceNumber] = true
		d.TotalPurchasedValue = d.TotalPurchasedValue.Add(p.TotalCost)
	}
	d.UniqueInvoices = len(invoices)

	index := make(map[string]int)
	var products []ProductSales
	for _, loc := range locations {
		for _, c := range CalculateAll(loc.Items) {
			d.TotalRevenue = d.TotalRevenue.Add(c.Revenue)
			d.TotalCOGS = d.TotalCOGS.Add(c.COGS)
			d.TotalStockValue = d.TotalStockValue.Add(c.TotalStockValue)
			d.TotalItemsStock = d.TotalItemsStock.Add(c.FinalCount)

			name := strings.TrimSpace(c.Name)
			i, ok := index[name]
			if !ok {
				i = len(products)
				index[name] = i
				products = append(products, ProductSales{Name: name})
			}
			products[i].Revenue = products[i].Revenue.Add(c.Revenue)
			products[i].QtySold = products[i].QtySold.Add(c.Sales)
		}
	}

	d.Profit = d.TotalRevenue.Sub(d.TotalCOGS)
	if d.TotalRevenue.IsPositive() {
		d.Margin = d.Profit.Div(d.TotalRevenue).Mul(hundred)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].QtySold.GreaterThan(products[j].QtySold)
	})
	if len(products) > 10 {
		products = products[:10]
	}
	d.TopProducts = products
	return d
}

// BuildPurchaseStats totals purchases and the payments due this calendar
// month and the next one, relative to now.
func BuildPurchaseStats(purchases []PurchaseRecord, now time.Time) *PurchaseStats {
	s := &PurchaseStats{}
	thisYear, thisMonth, _ := now.Date()
	nextYear, nextMonth := thisYear, thisMonth+1
	if thisMonth == time.December {
		nextYear, nextMonth = thisYear+1, time.January
	}

	for _, p := range purchases {
		s.TotalPurchases = s.TotalPurchases.Add(p.TotalCost)
		if p.PaymentDate.IsZero() {
			continue
		}
		y, m, _ := p.PaymentDate.Date()
		switch {
		case y == thisYear && m == thisMonth:
			s.PaymentsThisMonth = s.PaymentsThisMonth.Add(p.TotalCost)
		case y == nextYear && m == nextMonth:
			s.PaymentsNextMonth = s.PaymentsNextMonth.Add(p.TotalCost)
		}
	}
	return s
}

// BarDemand sums TransfersIn per normalized product name across the bars,
// i.e. what the central warehouse has shipped out to them.
func BarDemand(locations []Location) map[string]decimal.Decimal {
	demand := make(map[string]decimal.Decimal)
	for _, loc := range locations {
		if loc.IsCentral() {
			continue
		}
		for _, it := range loc.Items {
			key := NormalizeName(it.Name)
			demand[key] = demand[key].Add(it.TransfersIn)
		}
	}
	return demand
}
