package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"barstock/internal/app"
	"barstock/internal/logger"

	"github.com/go-chi/chi/v5"
)

// Options configures the HTTP adapter.
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	log    *logger.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	h := &Handler{svc: svc, log: log.WithComponent("web")}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(h.log))
	r.Use(Recoverer(h.log))
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(RequestBodyLimit(opts.MaxBodyBytes))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Locations ─────────────────────────────────────────────────────────────
	r.Route("/api/locations", func(r chi.Router) {
		r.Get("/", h.listLocations)
		r.Post("/", h.createLocation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getLocation)
			r.Patch("/", h.renameLocation)
			r.Delete("/", h.deleteLocation)
			r.Post("/activate", h.activateLocation)

			// ── Items ─────────────────────────────────────────────────────────
			r.Get("/items", h.listItems)
			r.Post("/items", h.addItem)
			r.Post("/items/bulk-edit", h.bulkEdit)
			r.Post("/items/bulk-delete", h.bulkDelete)
			r.Patch("/items/{itemID}", h.editItem)
			r.Delete("/items/{itemID}", h.deleteItem)

			r.Post("/import", h.importSales)
			r.Post("/audit", h.audit)
		})
	})

	// ── Purchases & catalog ───────────────────────────────────────────────────
	r.Get("/api/purchases", h.listPurchases)
	r.Post("/api/purchases", h.recordPurchase)
	r.Post("/api/categories/rename", h.renameCategory)

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Get("/api/reports/financial", h.financialReport)
	r.Get("/api/reports/dashboard", h.dashboard)
	r.Get("/api/reports/purchases", h.purchaseStats)

	h.router = r
	return r
}

// health reports liveness and the number of locations loaded.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status    string `json:"status"`
		Locations int    `json:"locations"`
	}
	n := 0
	if list, err := h.svc.ListLocations(r.Context()); err == nil {
		n = len(list.Locations)
	}
	writeJSON(w, response{Status: "ok", Locations: n})
}

// locationID extracts the {id} URL parameter.
func locationID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
