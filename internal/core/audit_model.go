package core

import "strings"

// CategoryStatus grades one category in an audit.
type CategoryStatus string

const (
	StatusOK       CategoryStatus = "OK"
	StatusReview   CategoryStatus = "Review"
	StatusCritical CategoryStatus = "Critical"
)

// RiskScore is the auditor's overall financial risk grade.
type RiskScore string

const (
	RiskLow    RiskScore = "Low"
	RiskMedium RiskScore = "Medium"
	RiskHigh   RiskScore = "High"
)

// CategoryAnalysis is the audit verdict for one category.
type CategoryAnalysis struct {
	Category string         `json:"category"`
	Status   CategoryStatus `json:"status" jsonschema:"enum=OK,enum=Review,enum=Critical"`
	Comment  string         `json:"comment"`
}

// ProductFinding is one actionable line of the detailed report.
type ProductFinding struct {
	ProductName    string `json:"productName"`
	Issue          string `json:"issue"`
	ActionRequired string `json:"actionRequired"`
}

// AuditReport is the structured result of an inventory audit.
type AuditReport struct {
	ConsolidatedAudit  string             `json:"consolidatedAudit" jsonschema_description:"Executive summary of the audit"`
	CategoryAnalysis   []CategoryAnalysis `json:"categoryAnalysis"`
	DetailedReport     []ProductFinding   `json:"detailedReport"`
	FinancialRiskScore RiskScore          `json:"financialRiskScore" jsonschema:"enum=Low,enum=Medium,enum=High"`
}

// Normalize folds free-form model output onto the known enums.
// Unknown category statuses become Review; unknown risk becomes Low.
func (r *AuditReport) Normalize() {
	r.ConsolidatedAudit = strings.TrimSpace(r.ConsolidatedAudit)
	for i := range r.CategoryAnalysis {
		ca := &r.CategoryAnalysis[i]
		switch strings.ToLower(strings.TrimSpace(string(ca.Status))) {
		case "ok":
			ca.Status = StatusOK
		case "critical":
			ca.Status = StatusCritical
		default:
			ca.Status = StatusReview
		}
	}
	switch strings.ToLower(strings.TrimSpace(string(r.FinancialRiskScore))) {
	case "high":
		r.FinancialRiskScore = RiskHigh
	case "medium":
		r.FinancialRiskScore = RiskMedium
	default:
		r.FinancialRiskScore = RiskLow
	}
	if r.CategoryAnalysis == nil {
		r.CategoryAnalysis = []CategoryAnalysis{}
	}
	if r.DetailedReport == nil {
		r.DetailedReport = []ProductFinding{}
	}
}

// FallbackAuditReport is shown whenever the audit service cannot answer.
func FallbackAuditReport() *AuditReport {
	return &AuditReport{
		ConsolidatedAudit: "Unable to generate audit report. Please check connection.",
		CategoryAnalysis:  []CategoryAnalysis{},
		DetailedReport: []ProductFinding{
			{ProductName: "System Error", Issue: "AI Service Unavailable", ActionRequired: "Check API Key"},
		},
		FinancialRiskScore: RiskLow,
	}
}

// CriticalItems filters the items an auditor needs to look at.
func CriticalItems(items []CalculatedItem) []CalculatedItem {
	var out []CalculatedItem
	for _, c := range items {
		if c.IsCritical() {
			out = append(out, c)
		}
	}
	return out
}
