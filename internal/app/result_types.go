package app

import (
	"barstock/internal/core"
	"barstock/internal/integration"

	"github.com/shopspring/decimal"
)

// LocationSummaryResult is one row of ListLocations.
type LocationSummaryResult struct {
	ID        string
	Name      string
	Role      core.Role
	ItemCount int
	Active    bool
}

// LocationListResult is returned by ListLocations.
type LocationListResult struct {
	Locations []LocationSummaryResult
	ActiveID  string
}

// LocationResult is a location with every item's derived figures.
type LocationResult struct {
	Location core.Location
	Items    []core.CalculatedItem
	Summary  core.LocationSummary
	Active   bool
}

// EditResult reports what an edit touched. Applied is false when the
// location or items did not exist.
type EditResult struct {
	Applied      bool
	LocationID   string
	ItemIDs      []string
	PropagatedTo []string
	Recomputed   []string
}

func editResult(r core.EditResult) *EditResult {
	return &EditResult{
		Applied:      r.Applied,
		LocationID:   r.LocationID,
		ItemIDs:      r.ItemIDs,
		PropagatedTo: r.PropagatedTo,
		Recomputed:   r.Recomputed,
	}
}

// ImportPreviewResult shows what a sales import would change.
type ImportPreviewResult struct {
	LocationID string
	ParsedRows int
	Lines      []integration.PreviewLine
}

// ImportCommitResult is returned after applying an import.
type ImportCommitResult struct {
	Preview *ImportPreviewResult
	Edit    *EditResult
}

// PurchaseResult is returned by RecordPurchase.
type PurchaseResult struct {
	Purchase     core.PurchaseRecord
	UpdatedItems int
	PropagatedTo []string
}

// PurchaseListResult lists purchases with payment statistics.
type PurchaseListResult struct {
	Purchases []core.PurchaseRecord
	Stats     *core.PurchaseStats
}

// DashboardResult is the cross-location overview.
type DashboardResult struct {
	Dashboard *core.Dashboard
	BarDemand map[string]decimal.Decimal
}

// AuditResult carries the report for one location. Fallback is set when the
// report is the synthetic one produced after an auditor failure; Err then
// holds the cause.
type AuditResult struct {
	LocationID   string
	LocationName string
	Report       *core.AuditReport
	Fallback     bool
	Err          error
}
