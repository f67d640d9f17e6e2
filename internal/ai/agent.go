package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"barstock/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// Auditor writes a structured audit report for one location's counted stock.
// Implementations return an error on any failure; callers substitute
// core.FallbackAuditReport.
type Auditor interface {
	Audit(ctx context.Context, locationName string, items []core.CalculatedItem) (*core.AuditReport, error)
}

// criticalItem is the per-item payload the model sees.
type criticalItem struct {
	Product       string          `json:"product"`
	Category      string          `json:"category"`
	SystemStock   decimal.Decimal `json:"systemStock"`
	ActualCount   decimal.Decimal `json:"actualCount"`
	Diff          decimal.Decimal `json:"diff"`
	FinancialDiff decimal.Decimal `json:"financialDiff"`
	Losses        decimal.Decimal `json:"losses"`
	Returns       decimal.Decimal `json:"returns"`
	Notes         string          `json:"notes"`
}

// BuildAuditPrompt renders the audit instructions. Only items with a count
// mismatch, losses, returns or notes are listed; totals cover every item.
func BuildAuditPrompt(locationName string, items []core.CalculatedItem) (string, error) {
	critical := core.CriticalItems(items)
	payload := make([]criticalItem, 0, len(critical))
	totalValue := decimal.Zero
	for _, c := range items {
		totalValue = totalValue.Add(c.TotalStockValue)
	}
	for _, c := range critical {
		payload = append(payload, criticalItem{
			Product:       c.Name,
			Category:      c.Category,
			SystemStock:   c.TheoreticalStock,
			ActualCount:   c.FinalCount,
			Diff:          c.Difference,
			FinancialDiff: c.FinancialDifference,
			Losses:        c.Losses,
			Returns:       c.Returns,
			Notes:         c.AuditNotes,
		})
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal critical items: %w", err)
	}

	return fmt.Sprintf(`Act as a Senior Inventory Auditor for a large hospitality group.
Perform a rigorous audit for the sector: %q.

Data Provided (Critical Items Only):
%s

Total Items Checked: %d
Total Stock Value: %s

Task:
Generate a formal audit report with these sections:
1. Consolidated Audit (Executive Summary): A paragraph summarizing the overall health of this sector.
2. Category Analysis: A brief status check for each category (OK, Review, Critical) with a short comment.
3. Detailed Report: List specific products that need immediate attention, identifying the issue and required action.
4. Financial Risk Score (Low, Medium, High).`,
		locationName, string(data), len(items), totalValue.StringFixed(2)), nil
}

// decodeReport parses a model's JSON answer into a normalized report.
func decodeReport(content string) (*core.AuditReport, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	var report core.AuditReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("failed to parse audit report: %w", err)
	}
	report.Normalize()
	return &report, nil
}

// reportSchema reflects core.AuditReport into a JSON schema map.
func reportSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(&core.AuditReport{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}

type timeoutAuditor struct {
	next    Auditor
	timeout time.Duration
}

// WithTimeout bounds every Audit call made through a. A non-positive timeout
// returns a unchanged.
func WithTimeout(a Auditor, timeout time.Duration) Auditor {
	if a == nil || timeout <= 0 {
		return a
	}
	return &timeoutAuditor{next: a, timeout: timeout}
}

func (t *timeoutAuditor) Audit(ctx context.Context, locationName string, items []core.CalculatedItem) (*core.AuditReport, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Audit(ctx, locationName, items)
}
