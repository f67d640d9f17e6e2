package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barstock/internal/ai"
	"barstock/internal/core"
	"barstock/internal/events"
	"barstock/internal/integration"
	"barstock/internal/logger"

	"github.com/go-playground/validator/v10"
)

// ErrAuditorDisabled is recorded on fallback reports when no AI provider is configured.
var ErrAuditorDisabled = errors.New("no audit provider configured")

type appService struct {
	ledger    *core.Ledger
	reporting core.ReportingService
	auditor   ai.Auditor
	publisher *events.Publisher
	log       *logger.Logger
	validate  *validator.Validate
}

// NewAppService constructs an appService that satisfies ApplicationService.
// auditor and publisher may be nil: audits then return the fallback report and
// events are dropped.
func NewAppService(
	ledger *core.Ledger,
	auditor ai.Auditor,
	publisher *events.Publisher,
	log *logger.Logger,
) ApplicationService {
	if log == nil {
		log = logger.Nop()
	}
	return &appService{
		ledger:    ledger,
		reporting: core.NewReportingService(ledger),
		auditor:   auditor,
		publisher: publisher,
		log:       log.WithComponent("app"),
		validate:  newValidator(),
	}
}

// ── Locations ─────────────────────────────────────────────────────────────────

func (s *appService) ListLocations(ctx context.Context) (*LocationListResult, error) {
	active := s.ledger.Active().ID
	locs := s.ledger.Snapshot()
	out := &LocationListResult{ActiveID: active, Locations: make([]LocationSummaryResult, len(locs))}
	for i, loc := range locs {
		out.Locations[i] = LocationSummaryResult{
			ID:        loc.ID,
			Name:      loc.Name,
			Role:      loc.Role,
			ItemCount: len(loc.Items),
			Active:    loc.ID == active,
		}
	}
	return out, nil
}

func (s *appService) GetLocation(ctx context.Context, locationID string) (*LocationResult, error) {
	loc, err := s.ledger.Location(locationID)
	if err != nil {
		return nil, err
	}
	return s.locationResult(loc), nil
}

func (s *appService) locationResult(loc core.Location) *LocationResult {
	items := core.CalculateAll(loc.Items)
	return &LocationResult{
		Location: loc,
		Items:    items,
		Summary:  core.SummarizeLocation(items),
		Active:   s.ledger.Active().ID == loc.ID,
	}
}

func (s *appService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	loc, err := s.ledger.CreateLocation(req.Name)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	s.log.Info().Str("location_id", loc.ID).Str("name", loc.Name).Int("items", len(loc.Items)).Msg("location created")
	s.publisher.PublishLocation(ctx, events.LocationCreated, loc.ID, loc.Name)
	return s.locationResult(loc), nil
}

func (s *appService) RenameLocation(ctx context.Context, req RenameLocationRequest) (*LocationResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	loc, err := s.ledger.RenameLocation(req.LocationID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("rename location: %w", err)
	}
	s.log.Info().Str("location_id", loc.ID).Str("name", loc.Name).Msg("location renamed")
	s.publisher.PublishLocation(ctx, events.LocationRenamed, loc.ID, loc.Name)
	return s.locationResult(loc), nil
}

func (s *appService) DeleteLocation(ctx context.Context, locationID string) error {
	if err := s.ledger.DeleteLocation(locationID); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	s.log.Info().Str("location_id", locationID).Msg("location deleted")
	s.publisher.PublishLocation(ctx, events.LocationDeleted, locationID, "")
	return nil
}

func (s *appService) ActivateLocation(ctx context.Context, locationID string) error {
	return s.ledger.SetActive(locationID)
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *appService) AddItem(ctx context.Context, req AddItemRequest) (*core.InventoryItem, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	category := req.Category
	if category == "" {
		category = core.DefaultCategories[0]
	}
	unit := req.Unit
	if unit == "" {
		unit = "un"
	}
	it, err := s.ledger.AddItem(req.LocationID, core.InventoryItem{
		Code:      req.Code,
		Name:      req.Name,
		Category:  category,
		Unit:      unit,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
		MinStock:  req.MinStock,
	})
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	s.log.Info().Str("location_id", req.LocationID).Str("item_id", it.ID).Str("product_id", it.ProductID).Msg("item added")
	return &it, nil
}

func (s *appService) EditItem(ctx context.Context, req EditItemRequest) (*EditResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	return s.bulkEdit(ctx, req.LocationID, []string{req.ItemID}, req.Field, req.Value)
}

func (s *appService) BulkEdit(ctx context.Context, req BulkEditRequest) (*EditResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	return s.bulkEdit(ctx, req.LocationID, req.ItemIDs, req.Field, req.Value)
}

func (s *appService) bulkEdit(ctx context.Context, locationID string, itemIDs []string, field, value string) (*EditResult, error) {
	f, err := core.ParseField(field)
	if err != nil {
		return nil, err
	}
	res, err := s.ledger.BulkEditField(locationID, itemIDs, f, value)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", f, err)
	}
	if !res.Applied {
		s.log.Debug().Str("location_id", locationID).Strs("item_ids", itemIDs).Msg("edit matched nothing")
		return editResult(res), nil
	}
	s.log.Info().
		Str("location_id", locationID).
		Str("field", string(f)).
		Int("items", len(res.ItemIDs)).
		Int("propagated", len(res.PropagatedTo)).
		Int("recomputed", len(res.Recomputed)).
		Msg("items edited")
	s.publisher.PublishEdit(ctx, events.ItemEdited, f, value, res)
	return editResult(res), nil
}

func (s *appService) DeleteItems(ctx context.Context, req DeleteItemsRequest) (*EditResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	res, err := s.ledger.BulkDelete(req.LocationID, req.ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("delete items: %w", err)
	}
	if res.Applied {
		s.log.Info().Str("location_id", req.LocationID).Int("items", len(res.ItemIDs)).Msg("items deleted")
	}
	return editResult(res), nil
}

// ── Sales import ──────────────────────────────────────────────────────────────

func (s *appService) PreviewSalesImport(ctx context.Context, req ImportSalesRequest) (*ImportPreviewResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	loc, err := s.ledger.Location(req.LocationID)
	if err != nil {
		return nil, err
	}
	table, err := integration.ParseSales(integration.Format(req.Format), req.Text)
	if err != nil {
		return nil, err
	}
	preview := integration.MatchSales(table, loc.Items)
	return &ImportPreviewResult{
		LocationID: loc.ID,
		ParsedRows: table.Len(),
		Lines:      preview.Lines,
	}, nil
}

func (s *appService) CommitSalesImport(ctx context.Context, req ImportSalesRequest) (*ImportCommitResult, error) {
	preview, err := s.PreviewSalesImport(ctx, req)
	if err != nil {
		return nil, err
	}
	mapping := (&integration.Preview{Lines: preview.Lines}).Mapping()
	res, err := s.ledger.ApplySales(req.LocationID, mapping)
	if err != nil {
		return nil, fmt.Errorf("apply sales: %w", err)
	}
	s.log.Info().
		Str("location_id", req.LocationID).
		Int("parsed", preview.ParsedRows).
		Int("matched", len(res.ItemIDs)).
		Msg("sales imported")
	s.publisher.PublishSalesImport(ctx, res)
	return &ImportCommitResult{Preview: preview, Edit: editResult(res)}, nil
}

// ── Purchases & catalog ───────────────────────────────────────────────────────

func (s *appService) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*PurchaseResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	rec, res, err := s.ledger.AddPurchase(core.PurchaseRecord{
		Date:          req.Date,
		InvoiceNumber: req.InvoiceNumber,
		Supplier:      req.Supplier,
		PaymentDate:   req.PaymentDate,
		ProductName:   req.ProductName,
		Category:      req.Category,
		Quantity:      req.Quantity,
		UnitCost:      req.UnitCost,
	})
	if err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	s.log.Info().
		Str("purchase_id", rec.ID).
		Str("invoice", rec.InvoiceNumber).
		Str("product", rec.ProductName).
		Str("total", rec.TotalCost.StringFixed(2)).
		Int("central_items", len(res.ItemIDs)).
		Msg("purchase recorded")
	if len(res.ItemIDs) == 0 {
		s.log.Warn().Str("product", rec.ProductName).Msg("purchase matched no central item; inputs unchanged")
	}
	s.publisher.PublishPurchase(ctx, rec, res)
	return &PurchaseResult{Purchase: rec, UpdatedItems: len(res.ItemIDs), PropagatedTo: res.PropagatedTo}, nil
}

func (s *appService) ListPurchases(ctx context.Context, now time.Time) (*PurchaseListResult, error) {
	return &PurchaseListResult{
		Purchases: s.ledger.Purchases(),
		Stats:     s.reporting.GetPurchaseStats(now),
	}, nil
}

func (s *appService) RenameCategory(ctx context.Context, req RenameCategoryRequest) (int, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return 0, err
	}
	n := s.ledger.RenameCategory(req.OldName, req.NewName)
	s.log.Info().Str("from", req.OldName).Str("to", req.NewName).Int("items", n).Msg("category renamed")
	return n, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetFinancialReport(ctx context.Context, sortField string, desc bool) (*core.FinancialReport, error) {
	return s.reporting.GetFinancialReport(sortField, desc)
}

func (s *appService) GetDashboard(ctx context.Context) (*DashboardResult, error) {
	return &DashboardResult{
		Dashboard: s.reporting.GetDashboard(),
		BarDemand: s.reporting.GetBarDemand(),
	}, nil
}

// ── Audit ─────────────────────────────────────────────────────────────────────

func (s *appService) RunAudit(ctx context.Context, locationID string) (*AuditResult, error) {
	loc, err := s.ledger.Location(locationID)
	if err != nil {
		return nil, err
	}
	return s.audit(ctx, loc), nil
}

func (s *appService) RequestAudit(ctx context.Context, locationID string) (<-chan *AuditResult, error) {
	loc, err := s.ledger.Location(locationID)
	if err != nil {
		return nil, err
	}
	out := make(chan *AuditResult, 1)
	go func() {
		defer close(out)
		res := s.audit(ctx, loc)
		if ctx.Err() != nil {
			s.log.Debug().Str("location_id", loc.ID).Msg("audit result discarded after cancellation")
			return
		}
		out <- res
	}()
	return out, nil
}

// audit runs the auditor on a snapshot taken by the caller; the ledger stays
// editable while it runs.
func (s *appService) audit(ctx context.Context, loc core.Location) *AuditResult {
	res := &AuditResult{LocationID: loc.ID, LocationName: loc.Name}
	items := core.CalculateAll(loc.Items)

	var report *core.AuditReport
	err := ErrAuditorDisabled
	if s.auditor != nil {
		start := time.Now()
		report, err = s.auditor.Audit(ctx, loc.Name, items)
		if err == nil {
			s.log.Info().
				Str("location_id", loc.ID).
				Str("risk", string(report.FinancialRiskScore)).
				Dur("elapsed", time.Since(start)).
				Msg("audit completed")
		}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("location_id", loc.ID).Msg("audit failed, using fallback report")
		res.Report = core.FallbackAuditReport()
		res.Fallback = true
		res.Err = fmt.Errorf("audit %s: %w", loc.Name, err)
		return res
	}
	res.Report = report
	return res
}
