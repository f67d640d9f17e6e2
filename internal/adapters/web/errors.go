package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"barstock/internal/app"
	"barstock/internal/core"
	"barstock/internal/integration"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, status, errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps an ApplicationService error onto a status and code.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorResponse(w, http.StatusBadRequest, errorResponse{
			Error:     "validation failed",
			Code:      "VALIDATION_ERROR",
			Details:   verr.Details,
			RequestID: requestIDFromContext(r.Context()),
		})
	case errors.Is(err, core.ErrLocationNotFound):
		writeError(w, r, err.Error(), "LOCATION_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrItemNotFound):
		writeError(w, r, err.Error(), "ITEM_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrCentralProtected):
		writeError(w, r, err.Error(), "CENTRAL_PROTECTED", http.StatusConflict)
	case errors.Is(err, core.ErrLastLocation):
		writeError(w, r, err.Error(), "LAST_LOCATION", http.StatusConflict)
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrUnknownField),
		errors.Is(err, core.ErrUnknownSortField),
		errors.Is(err, core.ErrInvalidPurchase),
		errors.Is(err, integration.ErrUnknownFormat):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.Is(err, integration.ErrMalformedInput):
		writeError(w, r, err.Error(), "MALFORMED_INPUT", http.StatusUnprocessableEntity)
	default:
		h.log.Error().Err(err).Str("request_id", requestIDFromContext(r.Context())).Msg("unhandled service error")
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
