package render

import (
	"fmt"
	"strings"

	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/charmbracelet/glamour"
)

// AuditMarkdown lays an audit result out as a markdown document.
func AuditMarkdown(res *app.AuditResult) string {
	var b strings.Builder
	r := res.Report

	fmt.Fprintf(&b, "# Audit: %s\n\n", res.LocationName)
	if res.Fallback {
		b.WriteString("> **Audit service unavailable.** Showing the fallback report.\n\n")
	}
	fmt.Fprintf(&b, "**Financial risk:** %s\n\n", riskBadge(r.FinancialRiskScore))
	b.WriteString("## Summary\n\n")
	b.WriteString(r.ConsolidatedAudit)
	b.WriteString("\n\n")

	if len(r.CategoryAnalysis) > 0 {
		b.WriteString("## Categories\n\n| Category | Status | Comment |\n|---|---|---|\n")
		for _, c := range r.CategoryAnalysis {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(c.Category), c.Status, cell(c.Comment))
		}
		b.WriteString("\n")
	}

	if len(r.DetailedReport) > 0 {
		b.WriteString("## Findings\n\n")
		for _, f := range r.DetailedReport {
			fmt.Fprintf(&b, "- **%s**: %s. *%s*\n", f.ProductName, f.Issue, f.ActionRequired)
		}
	}
	return b.String()
}

func riskBadge(r core.RiskScore) string {
	switch r {
	case core.RiskHigh:
		return "HIGH"
	case core.RiskMedium:
		return "MEDIUM"
	}
	return "LOW"
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "/"), "\n", " ")
}

// Markdown renders markdown for a terminal. style is a glamour standard style
// ("dark", "light", "notty", ...); empty picks one from the terminal.
func Markdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
