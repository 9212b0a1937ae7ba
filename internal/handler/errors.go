package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/report"
)

// errorDetail is the inner body of the JSON error envelope.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the envelope every error reply uses: {"error":{...}}.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes one enveloped error.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// respondError maps a service error onto the HTTP error taxonomy:
// not found → 404, validation → 422, unknown report type → 400,
// empty result / no columns → 422, missing export capability → 503,
// anything else → 500 with the detail kept out of the response.
func respondError(w http.ResponseWriter, err error) {
	var capErr *report.CapabilityError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	case errors.Is(err, report.ErrUnknownReportType):
		writeError(w, http.StatusBadRequest, "unknown_report_type", err.Error())
	case errors.Is(err, report.ErrEmptyResult), errors.Is(err, report.ErrNoColumnsSelected):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.As(err, &capErr):
		writeError(w, http.StatusServiceUnavailable, "capability_unavailable", capErr.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// validationMessage extracts the human-readable part from a wrapped
// domain.ErrValidation. Services wrap the sentinel as a suffix, e.g.
// "customer cust_code is required: validation error".
func validationMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutSuffix(msg, ": "+domain.ErrValidation.Error()); ok {
		return cut
	}
	return msg
}
