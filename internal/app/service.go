package app

import (
	"context"
	"time"

	"barstock/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListLocations returns every location in creation order with the active one flagged.
	ListLocations(ctx context.Context) (*LocationListResult, error)

	// GetLocation returns one location with calculated item figures and totals.
	GetLocation(ctx context.Context, locationID string) (*LocationResult, error)

	// CreateLocation opens a bar cloned from central's catalog and makes it active.
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResult, error)

	// RenameLocation renames a location. Its role never changes.
	RenameLocation(ctx context.Context, req RenameLocationRequest) (*LocationResult, error)

	// DeleteLocation removes a bar. Central and the last location are protected.
	DeleteLocation(ctx context.Context, locationID string) error

	// ActivateLocation selects the location the REPL and UI work on.
	ActivateLocation(ctx context.Context, locationID string) error

	// AddItem appends a product row to a location.
	AddItem(ctx context.Context, req AddItemRequest) (*core.InventoryItem, error)

	// EditItem sets one field. Central price edits propagate to every bar; bar
	// movement edits re-aggregate the product into central.
	EditItem(ctx context.Context, req EditItemRequest) (*EditResult, error)

	// BulkEdit applies one value to several items of a location.
	BulkEdit(ctx context.Context, req BulkEditRequest) (*EditResult, error)

	// DeleteItems removes items from a location without re-aggregating central.
	DeleteItems(ctx context.Context, req DeleteItemsRequest) (*EditResult, error)

	// PreviewSalesImport parses pasted sales and matches them against a location's items.
	PreviewSalesImport(ctx context.Context, req ImportSalesRequest) (*ImportPreviewResult, error)

	// CommitSalesImport applies a sales import and re-aggregates central.
	CommitSalesImport(ctx context.Context, req ImportSalesRequest) (*ImportCommitResult, error)

	// RecordPurchase stores a supplier invoice line and feeds central inputs and costs.
	RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*PurchaseResult, error)

	// ListPurchases returns the purchase log with payment statistics as of now.
	ListPurchases(ctx context.Context, now time.Time) (*PurchaseListResult, error)

	// RenameCategory renames a category everywhere and returns the number of items changed.
	RenameCategory(ctx context.Context, req RenameCategoryRequest) (int, error)

	// GetFinancialReport aggregates every product across all locations.
	GetFinancialReport(ctx context.Context, sortField string, desc bool) (*core.FinancialReport, error)

	// GetDashboard returns the cross-location overview and per-product bar demand.
	GetDashboard(ctx context.Context) (*DashboardResult, error)

	// RunAudit audits one location synchronously. Auditor failures yield the
	// fallback report, never an error.
	RunAudit(ctx context.Context, locationID string) (*AuditResult, error)

	// RequestAudit starts an audit in the background. The channel yields one
	// result and closes; it closes without a value if ctx is cancelled first.
	RequestAudit(ctx context.Context, locationID string) (<-chan *AuditResult, error)
}
