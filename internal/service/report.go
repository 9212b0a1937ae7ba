package service

import (
	"context"
	"time"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/report"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

// ReportService feeds visit events into the report package and drives exports.
type ReportService struct {
	events   repo.EventRepo
	exporter *report.Exporter

	// now is swappable for tests.
	now func() time.Time
}

// NewReportService constructs a ReportService backed by the provided repo and
// exporter.
func NewReportService(events repo.EventRepo, exporter *report.Exporter) *ReportService {
	return &ReportService{events: events, exporter: exporter, now: time.Now}
}

// ReportData is a rendered report: its label, resolved columns, and rows.
type ReportData struct {
	Type    report.Type  `json:"type"`
	Label   string       `json:"label"`
	Columns []string     `json:"columns"`
	Rows    []report.Row `json:"rows"`
}

// ColumnsInfo lists the columns a report type can offer for the current data,
// and which of them are selected by default.
type ColumnsInfo struct {
	Available []string `json:"available"`
	Defaults  []string `json:"defaults"`
}

// ExportRequest carries everything needed to produce a downloadable report file.
type ExportRequest struct {
	Type           report.Type
	Format         report.Format
	Columns        []string
	IncludeLogo    bool
	IncludeSummary bool
	Filter         domain.EventFilter
}

// Rows builds the rows for one report type over the filtered events, resolved
// to the report's default columns.
func (s *ReportService) Rows(ctx context.Context, t report.Type, f domain.EventFilter) (ReportData, error) {
	events, err := s.feed(ctx, f)
	if err != nil {
		return ReportData{}, err
	}

	rows, err := report.BuildRows(t, events)
	if err != nil {
		return ReportData{}, err
	}

	available := report.AvailableColumns(rows)
	return ReportData{
		Type:    t,
		Label:   report.Label(t),
		Columns: report.DefaultColumns(t, available),
		Rows:    rows,
	}, nil
}

// Columns reports the available and default columns for one report type over
// the filtered events.
func (s *ReportService) Columns(ctx context.Context, t report.Type, f domain.EventFilter) (ColumnsInfo, error) {
	events, err := s.feed(ctx, f)
	if err != nil {
		return ColumnsInfo{}, err
	}

	rows, err := report.BuildRows(t, events)
	if err != nil {
		return ColumnsInfo{}, err
	}

	available := report.AvailableColumns(rows)
	return ColumnsInfo{
		Available: available,
		Defaults:  report.DefaultColumns(t, available),
	}, nil
}

// Summary returns the status totals over the filtered events.
func (s *ReportService) Summary(ctx context.Context, f domain.EventFilter) (report.Summary, error) {
	events, err := s.feed(ctx, f)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(events), nil
}

// Export produces a downloadable report file in the requested format.
func (s *ReportService) Export(ctx context.Context, req ExportRequest) (report.Result, error) {
	events, err := s.feed(ctx, req.Filter)
	if err != nil {
		return report.Result{}, err
	}

	return s.exporter.Export(report.Options{
		ReportType:     req.Type,
		Format:         req.Format,
		Events:         events,
		Columns:        req.Columns,
		IncludeLogo:    req.IncludeLogo,
		IncludeSummary: req.IncludeSummary,
		DateRangeLabel: dateRangeLabel(req.Filter),
		GeneratedLabel: report.ToFriendlyDate(s.now().UTC().Format("2006-01-02")),
	})
}

// feed loads the filtered events and maps them into report inputs. Only visit
// events (planned or completed types) feed reports; leave, holiday, and note
// entries are calendar furniture. The report status falls back to the event
// type when the free-text status column is blank.
func (s *ReportService) feed(ctx context.Context, f domain.EventFilter) ([]report.Event, error) {
	records, err := s.events.ListRecords(ctx, f)
	if err != nil {
		return nil, err
	}

	var events []report.Event
	for _, rec := range records {
		if rec.EventType != domain.EventTypePlanned && rec.EventType != domain.EventTypeCompleted {
			continue
		}
		status := rec.Status
		if status == "" {
			status = rec.EventType
		}
		events = append(events, report.Event{
			EventDate:    rec.EventDate.Format("2006-01-02"),
			CustomerName: rec.CustomerName,
			CustomerCode: rec.CustCode,
			Territory:    rec.Territory,
			Status:       status,
		})
	}
	return events, nil
}

// dateRangeLabel renders the filter window for report headers, e.g.
// "Jan 1, 2024 - Jan 31, 2024". Open ends render as "All Dates" or a
// one-sided label.
func dateRangeLabel(f domain.EventFilter) string {
	friendly := func(t *time.Time) string {
		return report.ToFriendlyDate(t.Format("2006-01-02"))
	}
	switch {
	case f.Start == nil && f.End == nil:
		return "All Dates"
	case f.Start == nil:
		return "Through " + friendly(f.End)
	case f.End == nil:
		return "From " + friendly(f.Start)
	default:
		return friendly(f.Start) + " - " + friendly(f.End)
	}
}
