package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"barstock/internal/core"
	"barstock/internal/integration"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditor struct {
	report *core.AuditReport
	err    error
	block  bool
	calls  int
}

func (f *fakeAuditor) Audit(ctx context.Context, locationName string, items []core.CalculatedItem) (*core.AuditReport, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.report, f.err
}

func newTestService(t *testing.T, auditor *fakeAuditor) (ApplicationService, *core.Ledger) {
	t.Helper()
	ledger := core.NewSeededLedger()
	if auditor == nil {
		return NewAppService(ledger, nil, nil, nil), ledger
	}
	return NewAppService(ledger, auditor, nil, nil), ledger
}

func item(t *testing.T, loc core.Location, name string) core.InventoryItem {
	t.Helper()
	for _, it := range loc.Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("no item %q in %s", name, loc.Name)
	return core.InventoryItem{}
}

func TestCreateLocation_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.CreateLocation(context.Background(), CreateLocationRequest{Name: ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "this field is required", verr.Details["name"])
}

func TestCreateLocation_ClonesCentralAndActivates(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "Bar Piscina"})
	require.NoError(t, err)
	assert.Equal(t, core.RoleBranch, res.Location.Role)
	assert.Len(t, res.Items, 5)
	assert.True(t, res.Active)
	for _, it := range res.Location.Items {
		assert.True(t, it.FinalCount.IsZero(), it.Name)
	}

	list, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, list.Locations, 2)
	assert.Equal(t, res.Location.ID, list.ActiveID)
	assert.Equal(t, core.RoleCentral, list.Locations[0].Role)
}

func TestEditItem_BarEditRecomputesCentral(t *testing.T) {
	svc, ledger := newTestService(t, nil)
	ctx := context.Background()

	bar, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "Bar A"})
	require.NoError(t, err)
	coke := item(t, bar.Location, "Coca-Cola Lata")

	res, err := svc.EditItem(ctx, EditItemRequest{LocationID: bar.Location.ID, ItemID: coke.ID, Field: "sales", Value: "12,5"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, []string{coke.ProductID}, res.Recomputed)

	central := item(t, ledger.Central(), "Coca-Cola Lata")
	assert.True(t, central.Sales.Equal(decimal.RequireFromString("12.5")), central.Sales.String())
}

func TestEditItem_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.EditItem(ctx, EditItemRequest{LocationID: core.CentralLocationID, ItemID: "cent_1", Field: "colour", Value: "red"})
	assert.ErrorIs(t, err, core.ErrUnknownField)

	res, err := svc.EditItem(ctx, EditItemRequest{LocationID: "nowhere", ItemID: "cent_1", Field: "sales", Value: "1"})
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = svc.BulkEdit(ctx, BulkEditRequest{LocationID: core.CentralLocationID, Field: "sales"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Details, "itemIds")
}

func TestDeleteLocation_CentralProtected(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	err := svc.DeleteLocation(ctx, core.CentralLocationID)
	assert.ErrorIs(t, err, core.ErrLastLocation)

	_, err = svc.CreateLocation(ctx, CreateLocationRequest{Name: "Bar A"})
	require.NoError(t, err)
	err = svc.DeleteLocation(ctx, core.CentralLocationID)
	assert.ErrorIs(t, err, core.ErrCentralProtected)
}

func TestSalesImport_PreviewThenCommit(t *testing.T) {
	svc, ledger := newTestService(t, nil)
	ctx := context.Background()

	bar, err := svc.CreateLocation(ctx, CreateLocationRequest{Name: "Bar A"})
	require.NoError(t, err)

	req := ImportSalesRequest{
		LocationID: bar.Location.ID,
		Format:     "csv",
		Text:       "Coca Cola Lata;12\nred bull,5\ncabeçalho sem número",
	}
	preview, err := svc.PreviewSalesImport(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.ParsedRows)
	require.Len(t, preview.Lines, 2)

	// preview leaves the ledger untouched
	loc, _ := ledger.Location(bar.Location.ID)
	assert.True(t, item(t, loc, "Red Bull").Sales.IsZero())

	committed, err := svc.CommitSalesImport(ctx, req)
	require.NoError(t, err)
	assert.True(t, committed.Edit.Applied)
	assert.Len(t, committed.Edit.ItemIDs, 2)

	central := ledger.Central()
	assert.True(t, item(t, central, "Coca-Cola Lata").Sales.Equal(decimal.NewFromInt(12)))
	assert.True(t, item(t, central, "Red Bull").Sales.Equal(decimal.NewFromInt(5)))
}

func TestSalesImport_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.PreviewSalesImport(ctx, ImportSalesRequest{LocationID: core.CentralLocationID, Format: "json", Text: "[{"})
	assert.ErrorIs(t, err, integration.ErrMalformedInput)

	_, err = svc.PreviewSalesImport(ctx, ImportSalesRequest{LocationID: core.CentralLocationID, Format: "xml", Text: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be one of: csv json", verr.Details["format"])

	_, err = svc.PreviewSalesImport(ctx, ImportSalesRequest{LocationID: "nowhere", Format: "csv", Text: "a;1"})
	assert.ErrorIs(t, err, core.ErrLocationNotFound)
}

func TestRecordPurchase(t *testing.T) {
	svc, ledger := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.RecordPurchase(ctx, RecordPurchaseRequest{
		InvoiceNumber: "NF-100",
		Supplier:      "  distribuidora sul ",
		ProductName:   "Gin Tanqueray",
		Quantity:      decimal.NewFromInt(24),
		UnitCost:      decimal.NewFromInt(85),
	})
	require.NoError(t, err)
	assert.Equal(t, "DISTRIBUIDORA SUL", res.Purchase.Supplier)
	assert.Equal(t, "2040.00", res.Purchase.TotalCost.StringFixed(2))
	assert.Equal(t, 1, res.UpdatedItems)

	gin := item(t, ledger.Central(), "Gin Tanqueray")
	assert.True(t, gin.Inputs.Equal(decimal.NewFromInt(29)), gin.Inputs.String())

	list, err := svc.ListPurchases(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, list.Purchases, 1)

	_, err = svc.RecordPurchase(ctx, RecordPurchaseRequest{InvoiceNumber: "NF-101", ProductName: "Gin Tanqueray"})
	assert.ErrorIs(t, err, core.ErrInvalidPurchase)
}

func TestRenameCategory(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	n, err := svc.RenameCategory(ctx, RenameCategoryRequest{OldName: "Destilados", NewName: "Spirits"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.RenameCategory(ctx, RenameCategoryRequest{OldName: "Spirits", NewName: "Spirits"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Details, "newName")
}

func TestRunAudit_NoAuditorFallsBack(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.RunAudit(context.Background(), core.CentralLocationID)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, ErrAuditorDisabled)
	assert.Equal(t, core.RiskLow, res.Report.FinancialRiskScore)
	assert.Equal(t, "System Error", res.Report.DetailedReport[0].ProductName)

	_, err = svc.RunAudit(context.Background(), "nowhere")
	assert.ErrorIs(t, err, core.ErrLocationNotFound)
}

func TestRequestAudit(t *testing.T) {
	report := &core.AuditReport{ConsolidatedAudit: "ok", FinancialRiskScore: core.RiskMedium}

	t.Run("success", func(t *testing.T) {
		auditor := &fakeAuditor{report: report}
		svc, _ := newTestService(t, auditor)

		ch, err := svc.RequestAudit(context.Background(), core.CentralLocationID)
		require.NoError(t, err)
		res, ok := <-ch
		require.True(t, ok)
		assert.False(t, res.Fallback)
		assert.Same(t, report, res.Report)
		assert.Equal(t, "Estoque Geral", res.LocationName)
	})

	t.Run("auditor failure", func(t *testing.T) {
		auditor := &fakeAuditor{err: errors.New("quota exceeded")}
		svc, _ := newTestService(t, auditor)

		ch, err := svc.RequestAudit(context.Background(), core.CentralLocationID)
		require.NoError(t, err)
		res := <-ch
		assert.True(t, res.Fallback)
		assert.ErrorContains(t, res.Err, "quota exceeded")
	})

	t.Run("cancelled", func(t *testing.T) {
		auditor := &fakeAuditor{block: true}
		svc, ledger := newTestService(t, auditor)

		ctx, cancel := context.WithCancel(context.Background())
		ch, err := svc.RequestAudit(ctx, core.CentralLocationID)
		require.NoError(t, err)

		// the ledger stays editable while the audit is pending
		_, err = ledger.EditField(core.CentralLocationID, "cent_1", core.FieldFinalCount, "1")
		require.NoError(t, err)

		cancel()
		select {
		case res, ok := <-ch:
			assert.False(t, ok, "expected closed channel, got %+v", res)
		case <-time.After(2 * time.Second):
			t.Fatal("audit channel not closed after cancel")
		}
	})
}
