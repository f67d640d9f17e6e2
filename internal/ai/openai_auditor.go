package ai

import (
	"context"
	"fmt"

	"barstock/internal/core"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// OpenAIAuditor audits through the OpenAI Responses API with a strict JSON schema.
type OpenAIAuditor struct {
	client *openai.Client
	model  string
}

// NewOpenAIAuditor builds an auditor; an empty model defaults to gpt-4o.
func NewOpenAIAuditor(apiKey, model string, opts ...option.RequestOption) *OpenAIAuditor {
	if model == "" {
		model = string(shared.ChatModelGPT4o)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIAuditor{client: &client, model: model}
}

func (a *OpenAIAuditor) Audit(ctx context.Context, locationName string, items []core.CalculatedItem) (*core.AuditReport, error) {
	prompt, err := BuildAuditPrompt(locationName, items)
	if err != nil {
		return nil, err
	}
	schemaMap, err := reportSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "inventory_audit_report",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A formal inventory audit report for one sector"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}
	return decodeReport(resp.OutputText())
}
