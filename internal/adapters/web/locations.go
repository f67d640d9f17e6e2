package web

import (
	"net/http"

	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/go-chi/chi/v5"
)

// ── Locations ─────────────────────────────────────────────────────────────────

// listLocations handles GET /api/locations.
func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListLocations(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]locationSummaryView, len(list.Locations))
	for i, l := range list.Locations {
		out[i] = locationSummaryView{ID: l.ID, Name: l.Name, Role: string(l.Role), ItemCount: l.ItemCount, Active: l.Active}
	}
	writeJSON(w, map[string]any{"locations": out, "activeId": list.ActiveID})
}

// createLocation handles POST /api/locations.
func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	var req app.CreateLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateLocation(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toLocationView(res))
}

// getLocation handles GET /api/locations/{id}.
func (h *Handler) getLocation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetLocation(r.Context(), locationID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toLocationView(res))
}

// renameLocation handles PATCH /api/locations/{id}.
func (h *Handler) renameLocation(w http.ResponseWriter, r *http.Request) {
	var req app.RenameLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)
	res, err := h.svc.RenameLocation(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toLocationView(res))
}

// deleteLocation handles DELETE /api/locations/{id}.
func (h *Handler) deleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLocation(r.Context(), locationID(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activateLocation handles POST /api/locations/{id}/activate.
func (h *Handler) activateLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ActivateLocation(r.Context(), locationID(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"activeId": locationID(r)})
}

// ── Items ─────────────────────────────────────────────────────────────────────

// listItems handles GET /api/locations/{id}/items.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetLocation(r.Context(), locationID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toLocationView(res).Items)
}

// addItem handles POST /api/locations/{id}/items.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req app.AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)
	it, err := h.svc.AddItem(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toItemView(core.Calculate(*it)))
}

// editItem handles PATCH /api/locations/{id}/items/{itemID}.
// A missing location or item is not an error; the response reports applied=false.
func (h *Handler) editItem(w http.ResponseWriter, r *http.Request) {
	var req app.EditItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)
	req.ItemID = chi.URLParam(r, "itemID")
	res, err := h.svc.EditItem(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toEditView(res))
}

// bulkEdit handles POST /api/locations/{id}/items/bulk-edit.
func (h *Handler) bulkEdit(w http.ResponseWriter, r *http.Request) {
	var req app.BulkEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)
	res, err := h.svc.BulkEdit(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toEditView(res))
}

// deleteItem handles DELETE /api/locations/{id}/items/{itemID}.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DeleteItems(r.Context(), app.DeleteItemsRequest{
		LocationID: locationID(r),
		ItemIDs:    []string{chi.URLParam(r, "itemID")},
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !res.Applied {
		h.writeServiceError(w, r, core.ErrItemNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkDelete handles POST /api/locations/{id}/items/bulk-delete.
func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req app.DeleteItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)
	res, err := h.svc.DeleteItems(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toEditView(res))
}

// ── Import & audit ────────────────────────────────────────────────────────────

// importSales handles POST /api/locations/{id}/import. Without ?commit=true
// only the preview is returned.
func (h *Handler) importSales(w http.ResponseWriter, r *http.Request) {
	var req app.ImportSalesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LocationID = locationID(r)

	if r.URL.Query().Get("commit") != "true" {
		preview, err := h.svc.PreviewSalesImport(r.Context(), req)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, toImportView(preview))
		return
	}

	res, err := h.svc.CommitSalesImport(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	v := toImportView(res.Preview)
	v.Committed = true
	v.Edit = toEditView(res.Edit)
	writeJSON(w, v)
}

// audit handles POST /api/locations/{id}/audit. It waits for the background
// audit; a client disconnect cancels it.
func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	ch, err := h.svc.RequestAudit(r.Context(), locationID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	res, ok := <-ch
	if !ok {
		return
	}
	v := auditView{
		LocationID:   res.LocationID,
		LocationName: res.LocationName,
		Fallback:     res.Fallback,
		Report:       res.Report,
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	writeJSON(w, v)
}
