// Package cli implements one-shot subcommands over the ApplicationService.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"barstock/internal/adapters/render"
	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/google/subcommands"
)

// Env is what every subcommand needs.
type Env struct {
	Svc      app.ApplicationService
	Out      io.Writer
	In       io.Reader
	Currency string
	Style    string // glamour style; empty = auto
}

// Register adds every subcommand to the commander.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&reportCmd{env: env}, "reports")
	c.Register(&dashboardCmd{env: env}, "reports")
	c.Register(&purchasesCmd{env: env}, "reports")
	c.Register(&auditCmd{env: env}, "audit")
	c.Register(&importCmd{env: env}, "sales")
}

func (e *Env) printMarkdown(md string) subcommands.ExitStatus {
	out, err := render.Markdown(md, e.Style, 100)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(e.Out, md)
		return subcommands.ExitSuccess
	}
	fmt.Fprint(e.Out, out)
	return subcommands.ExitSuccess
}

func (e *Env) printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// ── report ────────────────────────────────────────────────────────────────────

type reportCmd struct {
	env    *Env
	sort   string
	asc    bool
	asJSON bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "financial report of every product across locations" }
func (*reportCmd) Usage() string {
	return `barstock report [-sort <field>] [-asc] [-json]

  Sums stock, stock value, consumption and cost of period per product over
  every location, with a breakdown of cost by category.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "", "Sort field: "+strings.Join(core.FinancialSortFields, ", ")+" (default costOfPeriod).")
	f.BoolVar(&c.asc, "asc", false, "Sort ascending.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a rendered table.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.env.Svc.GetFinancialReport(ctx, c.sort, !c.asc)
	if err != nil {
		return fail(err)
	}
	if c.asJSON {
		return c.env.printJSON(report)
	}
	return c.env.printMarkdown(financialMarkdown(report, c.env.Currency))
}

func financialMarkdown(r *core.FinancialReport, currency string) string {
	var b strings.Builder
	b.WriteString("# Financial report\n\n")
	b.WriteString("| Product | Category | Stock | Stock value | Consumed | Cost of period | Locations |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, p := range r.Products {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			p.Name, p.Category, p.FinalStock, render.Money(p.StockValue, currency),
			p.Consumption, render.Money(p.CostOfPeriod, currency), p.LocationsCount)
	}
	fmt.Fprintf(&b, "\n**Stock value:** %s  \n**Cost of period:** %s  \n**Discrepancy:** %s\n",
		render.Money(r.TotalStockValue, currency),
		render.Money(r.TotalCostOfPeriod, currency),
		render.Money(r.TotalDiscrepancyValue, currency))
	if len(r.Categories) > 0 {
		b.WriteString("\n## Cost by category\n\n| Category | Cost |\n|---|---:|\n")
		for _, cat := range r.Categories {
			fmt.Fprintf(&b, "| %s | %s |\n", cat.Category, render.Money(cat.Cost, currency))
		}
	}
	return b.String()
}

// ── dashboard ─────────────────────────────────────────────────────────────────

type dashboardCmd struct {
	env    *Env
	asJSON bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "revenue, profit, stock value and top sellers" }
func (*dashboardCmd) Usage() string    { return "barstock dashboard [-json]\n" }

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a rendered summary.")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := c.env.Svc.GetDashboard(ctx)
	if err != nil {
		return fail(err)
	}
	if c.asJSON {
		return c.env.printJSON(res)
	}
	cur := c.env.Currency
	d := res.Dashboard
	var b strings.Builder
	b.WriteString("# Dashboard\n\n| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Revenue | %s |\n", render.Money(d.TotalRevenue, cur))
	fmt.Fprintf(&b, "| Cost of goods sold | %s |\n", render.Money(d.TotalCOGS, cur))
	fmt.Fprintf(&b, "| Profit | %s (%s) |\n", render.Money(d.Profit, cur), render.Percent(d.Margin))
	fmt.Fprintf(&b, "| Stock value | %s |\n", render.Money(d.TotalStockValue, cur))
	fmt.Fprintf(&b, "| Items in stock | %s |\n", render.Quantity(d.TotalItemsStock))
	fmt.Fprintf(&b, "| Purchased | %s (%d invoices) |\n", render.Money(d.TotalPurchasedValue, cur), d.UniqueInvoices)
	if len(d.TopProducts) > 0 {
		b.WriteString("\n## Top sellers\n\n")
		for i, p := range d.TopProducts {
			fmt.Fprintf(&b, "%d. %s: %s sold, %s\n", i+1, p.Name, p.QtySold, render.Money(p.Revenue, cur))
		}
	}
	return c.env.printMarkdown(b.String())
}

// ── purchases ─────────────────────────────────────────────────────────────────

type purchasesCmd struct {
	env *Env
}

func (*purchasesCmd) Name() string             { return "purchases" }
func (*purchasesCmd) Synopsis() string         { return "purchase log and payments due this and next month" }
func (*purchasesCmd) Usage() string            { return "barstock purchases\n" }
func (*purchasesCmd) SetFlags(_ *flag.FlagSet) {}

func (c *purchasesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := c.env.Svc.ListPurchases(ctx, time.Now())
	if err != nil {
		return fail(err)
	}
	cur := c.env.Currency
	var b strings.Builder
	b.WriteString("# Purchases\n\n")
	if len(res.Purchases) == 0 {
		b.WriteString("No purchases recorded.\n")
	} else {
		b.WriteString("| Date | Invoice | Supplier | Product | Qty | Total |\n|---|---|---|---|---:|---:|\n")
		for _, p := range res.Purchases {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				p.Date.Format("2006-01-02"), p.InvoiceNumber, p.Supplier, p.ProductName, p.Quantity, render.Money(p.TotalCost, cur))
		}
	}
	fmt.Fprintf(&b, "\n**Total:** %s  \n**Due this month:** %s  \n**Due next month:** %s\n",
		render.Money(res.Stats.TotalPurchases, cur),
		render.Money(res.Stats.PaymentsThisMonth, cur),
		render.Money(res.Stats.PaymentsNextMonth, cur))
	return c.env.printMarkdown(b.String())
}

// ── audit ─────────────────────────────────────────────────────────────────────

type auditCmd struct {
	env      *Env
	location string
	timeout  time.Duration
	asJSON   bool
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "AI audit report for one location" }
func (*auditCmd) Usage() string {
	return `barstock audit [-location <id>] [-timeout 45s] [-json]

  Sends the location's discrepant items to the configured AI provider. When
  the provider is missing or fails, a fallback report is printed.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.location, "location", core.CentralLocationID, "Location id to audit.")
	f.DurationVar(&c.timeout, "timeout", 45*time.Second, "Give up on the provider after this long.")
	f.BoolVar(&c.asJSON, "json", false, "Print the report as JSON.")
}

func (c *auditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.env.Svc.RunAudit(ctx, c.location)
	if err != nil {
		return fail(err)
	}
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", res.Err)
	}
	if c.asJSON {
		return c.env.printJSON(res.Report)
	}
	return c.env.printMarkdown(render.AuditMarkdown(res))
}

// ── import ────────────────────────────────────────────────────────────────────

type importCmd struct {
	env      *Env
	location string
	format   string
	file     string
	commit   bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "match a sales export against a location's items" }
func (*importCmd) Usage() string {
	return `barstock import [-location <id>] [-format csv|json] [-file <path>] [-commit]

  Reads the export from -file or stdin and prints which items it would update.
  With -commit the sales are applied and the location sheet totals printed.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.location, "location", core.CentralLocationID, "Location id to import into.")
	f.StringVar(&c.format, "format", "csv", "Export format: csv or json.")
	f.StringVar(&c.file, "file", "", "Read the export from this file instead of stdin.")
	f.BoolVar(&c.commit, "commit", false, "Apply the matched sales.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		raw []byte
		err error
	)
	if c.file != "" {
		raw, err = os.ReadFile(c.file)
	} else {
		raw, err = io.ReadAll(c.env.In)
	}
	if err != nil {
		return fail(fmt.Errorf("read export: %w", err))
	}

	req := app.ImportSalesRequest{LocationID: c.location, Format: c.format, Text: string(raw)}
	var preview *app.ImportPreviewResult
	if c.commit {
		res, err := c.env.Svc.CommitSalesImport(ctx, req)
		if err != nil {
			return fail(err)
		}
		preview = res.Preview
	} else {
		preview, err = c.env.Svc.PreviewSalesImport(ctx, req)
		if err != nil {
			return fail(err)
		}
	}

	fmt.Fprintf(c.env.Out, "Parsed %d product(s); %d item(s) matched.\n", preview.ParsedRows, len(preview.Lines))
	for _, l := range preview.Lines {
		fmt.Fprintf(c.env.Out, "  %-30s %10s -> %s\n", l.Name, l.OldSales, l.NewSales)
	}
	if c.commit {
		loc, err := c.env.Svc.GetLocation(ctx, c.location)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(c.env.Out, "Applied. %s revenue is now %s.\n",
			loc.Location.Name, render.Money(loc.Summary.TotalRevenue, c.env.Currency))
	}
	return subcommands.ExitSuccess
}
