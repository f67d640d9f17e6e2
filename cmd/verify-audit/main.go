// Command verify-audit sends a staged discrepancy scenario to the configured
// AI provider and prints the structured report. It exits non-zero when the
// provider is missing or its answer cannot be decoded.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"barstock/internal/ai"
	"barstock/internal/config"
	"barstock/internal/core"
	"barstock/internal/logger"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("verify-audit", cfg.Environment, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout+5*time.Second)
	defer cancel()

	var auditor ai.Auditor
	switch cfg.AI.ResolvedProvider() {
	case config.ProviderOpenAI:
		auditor = ai.NewOpenAIAuditor(cfg.AI.OpenAIAPIKey, cfg.AI.Model)
	case config.ProviderGemini:
		auditor, err = ai.NewGeminiAuditor(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client")
		}
	default:
		log.Fatal().Msg("no AI provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	items := stagedItems()
	fmt.Printf("AUDITING %d items (%d with discrepancies) via %s\n",
		len(items), len(core.CriticalItems(items)), cfg.AI.ResolvedProvider())

	start := time.Now()
	report, err := auditor.Audit(ctx, "Bar Piscina", items)
	if err != nil {
		log.Fatal().Err(err).Msg("audit failed")
	}

	fmt.Printf("\n--- REPORT (%s) ---\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Risk: %s\n", report.FinancialRiskScore)
	fmt.Printf("Summary: %s\n", report.ConsolidatedAudit)
	fmt.Printf("\nCategories:\n")
	for _, c := range report.CategoryAnalysis {
		fmt.Printf("  %-14s %-10s %s\n", c.Category, c.Status, c.Comment)
	}
	fmt.Printf("\nFindings:\n")
	for _, f := range report.DetailedReport {
		fmt.Printf("  %s: %s -> %s\n", f.ProductName, f.Issue, f.ActionRequired)
	}
}

// stagedItems takes the seed catalog and introduces a shortage, a loss and
// an annotated return so the prompt has something to explain.
func stagedItems() []core.CalculatedItem {
	items := core.SeedLocations()[0].Items
	for i := range items {
		switch items[i].Name {
		case "Gin Tanqueray":
			items[i].FinalCount = items[i].FinalCount.Sub(decimal.NewFromInt(3))
		case "Absolut Vodka":
			items[i].Losses = decimal.NewFromInt(2)
			items[i].AuditNotes = "garrafa quebrada no balcão"
		case "Red Bull":
			items[i].Returns = decimal.NewFromInt(6)
		}
	}
	return core.CalculateAll(items)
}
