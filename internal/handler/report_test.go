package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/handler"
	"github.com/visitops/cvm-planner/backend/internal/report"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// ---- mock ReportServicer -------------------------------------------------------

type mockReportServicer struct {
	rows    func(ctx context.Context, t report.Type, f domain.EventFilter) (service.ReportData, error)
	columns func(ctx context.Context, t report.Type, f domain.EventFilter) (service.ColumnsInfo, error)
	summary func(ctx context.Context, f domain.EventFilter) (report.Summary, error)
	export  func(ctx context.Context, req service.ExportRequest) (report.Result, error)
}

func (m *mockReportServicer) Rows(ctx context.Context, t report.Type, f domain.EventFilter) (service.ReportData, error) {
	return m.rows(ctx, t, f)
}
func (m *mockReportServicer) Columns(ctx context.Context, t report.Type, f domain.EventFilter) (service.ColumnsInfo, error) {
	return m.columns(ctx, t, f)
}
func (m *mockReportServicer) Summary(ctx context.Context, f domain.EventFilter) (report.Summary, error) {
	return m.summary(ctx, f)
}
func (m *mockReportServicer) Export(ctx context.Context, req service.ExportRequest) (report.Result, error) {
	return m.export(ctx, req)
}

var _ handler.ReportServicer = (*mockReportServicer)(nil)

// ---- GET /api/reports/{type} ----------------------------------------------------

func TestGetReportRows_200(t *testing.T) {
	svc := &mockReportServicer{
		rows: func(_ context.Context, typ report.Type, f domain.EventFilter) (service.ReportData, error) {
			assert.Equal(t, report.TypeVisitDetail, typ)
			require.NotNil(t, f.Start)
			assert.Equal(t, "2025-03-01", f.Start.Format("2006-01-02"))
			return service.ReportData{
				Type:    typ,
				Label:   "Visit Detail",
				Columns: []string{"event_date", "customer_name"},
				Rows:    []report.Row{{"event_date": "2025-03-14", "customer_name": "Acme Stores"}},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/visit_detail?start=2025-03-01", nil)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeResponse(t, rec, &body)
	assert.Equal(t, "Visit Detail", body["label"])
}

func TestGetReportRows_400_UnknownType(t *testing.T) {
	svc := &mockReportServicer{
		rows: func(_ context.Context, _ report.Type, _ domain.EventFilter) (service.ReportData, error) {
			return service.ReportData{}, report.ErrUnknownReportType
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/quarterly_forecast", nil)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /api/reports/{type}/columns ----------------------------------------------

func TestGetReportColumns_200(t *testing.T) {
	svc := &mockReportServicer{
		columns: func(_ context.Context, typ report.Type, _ domain.EventFilter) (service.ColumnsInfo, error) {
			assert.Equal(t, report.TypeExecutiveSummary, typ)
			return service.ColumnsInfo{
				Available: []string{"territory", "total_visits"},
				Defaults:  []string{"territory"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/executive_summary/columns", nil)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Available []string `json:"available"`
		Defaults  []string `json:"defaults"`
	}
	decodeResponse(t, rec, &body)
	assert.Equal(t, []string{"territory", "total_visits"}, body.Available)
}

// ---- GET /api/reports/summary ------------------------------------------------------

func TestGetReportSummary_200(t *testing.T) {
	svc := &mockReportServicer{
		summary: func(_ context.Context, _ domain.EventFilter) (report.Summary, error) {
			return report.Summary{Total: 3, Planned: 1, Completed: 2}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/summary", nil)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body report.Summary
	decodeResponse(t, rec, &body)
	assert.Equal(t, 3, body.Total)
}

// ---- POST /api/reports/export --------------------------------------------------------

func TestExportReport_200_StreamsAttachment(t *testing.T) {
	svc := &mockReportServicer{
		export: func(_ context.Context, req service.ExportRequest) (report.Result, error) {
			assert.Equal(t, report.TypeVisitDetail, req.Type)
			assert.Equal(t, report.FormatCSV, req.Format)
			assert.True(t, req.IncludeSummary)
			return report.Result{
				Title:    "Visit Detail",
				RowCount: 2,
				FileName: "planner-visit-detail-2025-03-31.csv",
				Artifact: report.Artifact{
					FileName:    "planner-visit-detail-2025-03-31.csv",
					ContentType: "text/csv; charset=utf-8",
					Data:        []byte("event_date,customer_name\n"),
				},
			}, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"type":            "visit_detail",
		"format":          "csv",
		"include_summary": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/export", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="planner-visit-detail-2025-03-31.csv"`,
		rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "event_date,customer_name\n", rec.Body.String())
}

func TestExportReport_422_EmptyResult(t *testing.T) {
	svc := &mockReportServicer{
		export: func(_ context.Context, _ service.ExportRequest) (report.Result, error) {
			return report.Result{}, report.ErrEmptyResult
		},
	}

	body := jsonBody(t, map[string]any{"type": "visit_detail", "format": "csv"})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/export", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportReport_503_MissingCapability(t *testing.T) {
	svc := &mockReportServicer{
		export: func(_ context.Context, _ service.ExportRequest) (report.Result, error) {
			return report.Result{}, &report.CapabilityError{Format: report.FormatPDF}
		},
	}

	body := jsonBody(t, map[string]any{"type": "visit_detail", "format": "pdf"})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/export", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Reports: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var envelope map[string]map[string]string
	decodeResponse(t, rec, &envelope)
	assert.Equal(t, "capability_unavailable", envelope["error"]["code"])
}
