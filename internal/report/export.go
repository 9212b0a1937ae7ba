package report

import (
	"fmt"
	"strings"
	"time"
)

// Options carries everything one export invocation needs. The caller supplies
// rows already filtered; Columns may be empty to use the report defaults.
type Options struct {
	ReportType     Type
	Format         Format
	Events         []Event
	Columns        []string
	IncludeLogo    bool
	IncludeSummary bool
	DateRangeLabel string
	GeneratedLabel string
}

// Artifact is a fully encoded export file, ready to hand off atomically.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Result describes a successful export.
type Result struct {
	Title    string
	RowCount int
	FileName string
	Artifact Artifact
}

// Exporter runs the export pipeline: aggregate, resolve columns, summarize,
// validate, encode. Encoders are injected at construction; a nil slot for a
// known format surfaces as a CapabilityError at dispatch time.
type Exporter struct {
	encoders map[Format]Encoder

	// Now supplies the timestamp used in generated file names.
	// Overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// NewExporter builds an Exporter from explicit per-format encoders.
// Pass nil for a format whose capability is unavailable in this runtime.
func NewExporter(csv, xlsx, pdf Encoder) *Exporter {
	return &Exporter{
		encoders: map[Format]Encoder{
			FormatCSV:  csv,
			FormatXLSX: xlsx,
			FormatPDF:  pdf,
		},
		Now: time.Now,
	}
}

// DefaultExporter wires all three encoders.
func DefaultExporter() *Exporter {
	return NewExporter(NewCSVEncoder(), NewXLSXEncoder(), NewPDFEncoder())
}

// Export runs one export invocation end to end and returns a result
// descriptor with the encoded artifact, or a typed failure. The pipeline is
// all-or-nothing: encoding happens fully in memory before anything is
// returned, so a failure never exposes a half-written file.
func (e *Exporter) Export(opts Options) (Result, error) {
	def, ok := definitions[opts.ReportType]
	if !ok {
		return Result{}, fmt.Errorf("report type %q: %w", opts.ReportType, ErrUnknownReportType)
	}

	rows := def.aggregate(opts.Events)
	available := AvailableColumns(rows)
	columns := ResolveColumns(opts.ReportType, opts.Columns, available)
	summary := Summarize(opts.Events)

	if len(rows) == 0 {
		return Result{}, ErrEmptyResult
	}
	if len(columns) == 0 {
		return Result{}, ErrNoColumnsSelected
	}

	format := opts.Format
	switch format {
	case FormatCSV, FormatXLSX, FormatPDF:
	default:
		format = FormatCSV // unknown formats fall back to delimited text
	}
	enc := e.encoders[format]
	if enc == nil {
		return Result{}, &CapabilityError{Format: format}
	}

	base := fmt.Sprintf("planner-%s-%s",
		strings.ReplaceAll(string(opts.ReportType), "_", "-"),
		e.Now().Format("2006-01-02"))

	data, err := enc.Encode(Payload{
		Title:          def.Label,
		Rows:           rows,
		Columns:        columns,
		Summary:        summary,
		FileName:       base,
		IncludeSummary: opts.IncludeSummary,
		IncludeLogo:    opts.IncludeLogo,
		DateRangeLabel: opts.DateRangeLabel,
		GeneratedLabel: opts.GeneratedLabel,
	})
	if err != nil {
		return Result{}, fmt.Errorf("report export failed: %w", err)
	}

	fileName := base + "." + enc.Extension()
	return Result{
		Title:    def.Label,
		RowCount: len(rows),
		FileName: fileName,
		Artifact: Artifact{
			FileName:    fileName,
			ContentType: enc.ContentType(),
			Data:        data,
		},
	}, nil
}
