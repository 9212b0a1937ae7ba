package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/report"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// exportPayload is the request body for POST /api/reports/export.
type exportPayload struct {
	Type           string              `json:"type"`
	Format         string              `json:"format"`
	Columns        []string            `json:"columns"`
	IncludeLogo    bool                `json:"include_logo"`
	IncludeSummary bool                `json:"include_summary"`
	Start          *openapi_types.Date `json:"start"`
	End            *openapi_types.Date `json:"end"`
	TerritoryID    *uuid.UUID          `json:"territory_id"`
	Status         string              `json:"status"`
}

// getReportRows handles GET /api/reports/{type}.
func (s *Server) getReportRows(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	data, err := s.deps.Reports.Rows(r.Context(), report.Type(chi.URLParam(r, "type")), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// getReportColumns handles GET /api/reports/{type}/columns.
func (s *Server) getReportColumns(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	info, err := s.deps.Reports.Columns(r.Context(), report.Type(chi.URLParam(r, "type")), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// getReportSummary handles GET /api/reports/summary.
func (s *Server) getReportSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	summary, err := s.deps.Reports.Summary(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// exportReport handles POST /api/reports/export. The encoded artifact streams
// back as an attachment; the orchestrator supplies the file name.
func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	var body exportPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	req := service.ExportRequest{
		Type:           report.Type(body.Type),
		Format:         report.Format(body.Format),
		Columns:        body.Columns,
		IncludeLogo:    body.IncludeLogo,
		IncludeSummary: body.IncludeSummary,
		Filter:         domain.EventFilter{TerritoryID: body.TerritoryID, Status: body.Status},
	}
	if body.Start != nil {
		start := body.Start.Time
		req.Filter.Start = &start
	}
	if body.End != nil {
		end := body.End.Time
		req.Filter.End = &end
	}

	result, err := s.deps.Reports.Export(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	artifact := result.Artifact
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data) //nolint:errcheck // client disconnects are not actionable
}
