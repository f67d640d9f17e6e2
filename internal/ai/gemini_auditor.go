package ai

import (
	"context"
	"fmt"

	"barstock/internal/core"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiAuditor audits through the Gemini API with a declared response schema.
type GeminiAuditor struct {
	client *genai.Client
	model  string
}

// NewGeminiAuditor builds an auditor; an empty model defaults to gemini-2.5-flash.
func NewGeminiAuditor(ctx context.Context, apiKey, model string) (*GeminiAuditor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiAuditor{client: client, model: model}, nil
}

func (a *GeminiAuditor) Audit(ctx context.Context, locationName string, items []core.CalculatedItem) (*core.AuditReport, error) {
	prompt, err := BuildAuditPrompt(locationName, items)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   auditResponseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	return decodeReport(resp.Text())
}

func auditResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"consolidatedAudit": str("Executive summary of the audit."),
			"categoryAnalysis": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": str(""),
						"status":   {Type: genai.TypeString, Enum: []string{"OK", "Review", "Critical"}},
						"comment":  str(""),
					},
				},
			},
			"detailedReport": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"productName":    str(""),
						"issue":          str("What is wrong (e.g. High loss, Missing stock)"),
						"actionRequired": str("Operational instruction"),
					},
				},
			},
			"financialRiskScore": {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
		},
		Required: []string{"consolidatedAudit", "categoryAnalysis", "detailedReport", "financialRiskScore"},
	}
}
