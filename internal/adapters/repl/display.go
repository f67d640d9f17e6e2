package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"barstock/internal/adapters/render"
	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/shopspring/decimal"
)

func renderMoney(d decimal.Decimal, currency string) string {
	return render.Money(d, currency)
}

func printLocations(w io.Writer, list *app.LocationListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "  %-3s %-40s %-24s %-8s %5s\n", "", "ID", "NAME", "ROLE", "ITEMS")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, l := range list.Locations {
		mark := ""
		if l.Active {
			mark = "*"
		}
		fmt.Fprintf(w, "  %-3s %-40s %-24s %-8s %5d\n", mark, l.ID, l.Name, l.Role, l.ItemCount)
	}
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printSheet(w io.Writer, loc *app.LocationResult, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintf(w, "  %s (%s)\n", loc.Location.Name, loc.Location.Role)
	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintf(w, "  %-3s %-26s %-12s %8s %8s %8s %8s %8s %8s %14s\n",
		"#", "PRODUCT", "CATEGORY", "INITIAL", "INPUTS", "SALES", "SYSTEM", "COUNT", "DIFF", "DIFF VALUE")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, c := range loc.Items {
		flag := " "
		if c.IsCritical() {
			flag = "!"
		}
		system := c.TheoreticalStock.String()
		if c.SystemStock.IsOverride() {
			system += "*"
		}
		fmt.Fprintf(w, "%s %-3d %-26s %-12s %8s %8s %8s %8s %8s %8s %14s\n",
			flag, i+1, trunc(c.Name, 26), trunc(c.Category, 12),
			c.InitialStock, c.Inputs, c.Sales, system, c.FinalCount, c.Difference,
			renderMoney(c.FinancialDifference, currency))
	}
	fmt.Fprintln(w, strings.Repeat("-", 110))
	fmt.Fprintf(w, "  Stock value: %s   Discrepancy: %s (%d items)   Revenue: %s   Profit: %s\n",
		renderMoney(loc.Summary.TotalStockValue, currency),
		renderMoney(loc.Summary.TotalDiscrepancyValue, currency),
		loc.Summary.ItemsWithDiscrepancy,
		renderMoney(loc.Summary.TotalRevenue, currency),
		renderMoney(loc.Summary.TotalProfit, currency))
	fmt.Fprintln(w, strings.Repeat("=", 110))
	fmt.Fprintln(w, "  ! = discrepancy   * = manual system stock")
}

func printImportPreview(w io.Writer, p *app.ImportPreviewResult) {
	fmt.Fprintf(w, "\nParsed %d product(s); %d item(s) matched.\n", p.ParsedRows, len(p.Lines))
	if len(p.Lines) == 0 {
		return
	}
	fmt.Fprintf(w, "  %-30s %10s %10s\n", "ITEM", "OLD", "NEW")
	for _, l := range p.Lines {
		fmt.Fprintf(w, "  %-30s %10s %10s\n", trunc(l.Name, 30), l.OldSales, l.NewSales)
	}
}

func printPurchases(w io.Writer, res *app.PurchaseListResult, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 96))
	fmt.Fprintf(w, "  %-10s %-12s %-18s %-24s %8s %14s\n", "DATE", "INVOICE", "SUPPLIER", "PRODUCT", "QTY", "TOTAL")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	if len(res.Purchases) == 0 {
		fmt.Fprintln(w, "  No purchases recorded.")
	}
	for _, p := range res.Purchases {
		fmt.Fprintf(w, "  %-10s %-12s %-18s %-24s %8s %14s\n",
			p.Date.Format("2006-01-02"), trunc(p.InvoiceNumber, 12), trunc(p.Supplier, 18),
			trunc(p.ProductName, 24), p.Quantity, renderMoney(p.TotalCost, currency))
	}
	fmt.Fprintln(w, strings.Repeat("-", 96))
	fmt.Fprintf(w, "  Total: %s   Due this month: %s   Due next month: %s\n",
		renderMoney(res.Stats.TotalPurchases, currency),
		renderMoney(res.Stats.PaymentsThisMonth, currency),
		renderMoney(res.Stats.PaymentsNextMonth, currency))
	fmt.Fprintln(w, strings.Repeat("=", 96))
}

func printFinancialReport(w io.Writer, r *core.FinancialReport, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "  %-28s %-12s %10s %14s %10s %14s %4s\n",
		"PRODUCT", "CATEGORY", "STOCK", "STOCK VALUE", "CONSUMED", "COST OF PERIOD", "LOCS")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, p := range r.Products {
		fmt.Fprintf(w, "  %-28s %-12s %10s %14s %10s %14s %4d\n",
			trunc(p.Name, 28), trunc(p.Category, 12), p.FinalStock,
			renderMoney(p.StockValue, currency), p.Consumption,
			renderMoney(p.CostOfPeriod, currency), p.LocationsCount)
	}
	fmt.Fprintln(w, strings.Repeat("-", 100))
	fmt.Fprintf(w, "  Stock value: %s   Cost of period: %s   Discrepancy: %s\n",
		renderMoney(r.TotalStockValue, currency),
		renderMoney(r.TotalCostOfPeriod, currency),
		renderMoney(r.TotalDiscrepancyValue, currency))
	if len(r.Categories) > 0 {
		fmt.Fprintln(w, "  By category:")
		for _, c := range r.Categories {
			fmt.Fprintf(w, "    %-20s %14s\n", c.Category, renderMoney(c.Cost, currency))
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
}

func printDashboard(w io.Writer, res *app.DashboardResult, currency string) {
	d := res.Dashboard
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  DASHBOARD")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-26s %s\n", "Revenue", renderMoney(d.TotalRevenue, currency))
	fmt.Fprintf(w, "  %-26s %s\n", "Cost of goods sold", renderMoney(d.TotalCOGS, currency))
	fmt.Fprintf(w, "  %-26s %s (%s)\n", "Profit", renderMoney(d.Profit, currency), render.Percent(d.Margin))
	fmt.Fprintf(w, "  %-26s %s\n", "Stock value", renderMoney(d.TotalStockValue, currency))
	fmt.Fprintf(w, "  %-26s %s\n", "Items in stock", render.Quantity(d.TotalItemsStock))
	fmt.Fprintf(w, "  %-26s %s (%d invoices)\n", "Purchased", renderMoney(d.TotalPurchasedValue, currency), d.UniqueInvoices)
	if len(d.TopProducts) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 62))
		fmt.Fprintln(w, "  Top sellers")
		for i, p := range d.TopProducts {
			fmt.Fprintf(w, "  %2d. %-28s %8s %14s\n", i+1, trunc(p.Name, 28), p.QtySold, renderMoney(p.Revenue, currency))
		}
	}
	if len(res.BarDemand) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 62))
		fmt.Fprintln(w, "  Bar demand (transfers in)")
		names := make([]string, 0, len(res.BarDemand))
		for n := range res.BarDemand {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "    %-28s %8s\n", trunc(n, 28), res.BarDemand[n])
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printAudit(w io.Writer, res *app.AuditResult, style string) {
	md := render.AuditMarkdown(res)
	out, err := render.Markdown(md, style, 100)
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}
	fmt.Fprint(w, out)
}

func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BARSTOCK COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  LOCATIONS")
	fmt.Fprintln(w, "  /locations                        List locations (* = active)")
	fmt.Fprintln(w, "  /use <location-id>                Switch active location")
	fmt.Fprintln(w, "  /new-bar <name>                   Open a bar cloned from central")
	fmt.Fprintln(w, "  /rename <location-id> <name>      Rename a location")
	fmt.Fprintln(w, "  /delete-bar <location-id>         Delete a bar")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ITEMS  (active location)")
	fmt.Fprintln(w, "  /items [location-id]              Reconciliation sheet")
	fmt.Fprintln(w, "  /set <#|id> <field> [value]       Edit a field (blank manualSystemStock = automatic)")
	fmt.Fprintln(w, "  /add-item <name>                  Add a product row")
	fmt.Fprintln(w, "  /delete-item <#|id> [...]         Delete rows")
	fmt.Fprintln(w, "  /import [csv|json]                Paste a sales export")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PURCHASES & CATALOG")
	fmt.Fprintln(w, "  /purchase                         Record an invoice line (interactive)")
	fmt.Fprintln(w, "  /purchases                        Purchase log and payments due")
	fmt.Fprintln(w, "  /rename-category <old> <new>      Rename a category everywhere")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  REPORTS")
	fmt.Fprintln(w, "  /report [sort-field] [asc|desc]   Financial report across locations")
	fmt.Fprintln(w, "  /dashboard                        Revenue, profit, top sellers")
	fmt.Fprintln(w, "  /audit [location-id]              AI audit of a location")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SESSION")
	fmt.Fprintln(w, "  /help                             Show this help")
	fmt.Fprintln(w, "  /exit                             Exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fields: "+strings.Join(fieldNames(), ", "))
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

func fieldNames() []string {
	return []string{
		string(core.FieldCode), string(core.FieldName), string(core.FieldCategory), string(core.FieldUnit),
		string(core.FieldCostPrice), string(core.FieldSellPrice), string(core.FieldInitialStock),
		string(core.FieldInputs), string(core.FieldTransfersIn), string(core.FieldTransfersOut),
		string(core.FieldReturns), string(core.FieldLosses), string(core.FieldSales),
		string(core.FieldFinalCount), string(core.FieldMinStock), string(core.FieldManualSystemStock),
		string(core.FieldAuditNotes),
	}
}
