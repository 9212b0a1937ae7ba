package report

import "strconv"

// Format identifies a target encoding for an export artifact.
type Format string

// Supported export formats. Anything else falls back to CSV at dispatch.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Payload is the single export payload every encoder consumes: the resolved
// rows and columns plus the shared summary/branding metadata.
type Payload struct {
	Title          string
	Rows           []Row
	Columns        []string
	Summary        Summary
	FileName       string // base name, no extension; encoders do not alter it
	IncludeSummary bool
	IncludeLogo    bool
	DateRangeLabel string
	GeneratedLabel string
}

// Encoder serializes a Payload into one target encoding, fully in memory.
// Implementations must be safe for concurrent use; they hold no per-export
// state.
type Encoder interface {
	// Extension is the artifact file extension without the dot, e.g. "csv".
	Extension() string
	// ContentType is the MIME type the artifact should be served with.
	ContentType() string
	// Encode renders the payload. A failure must not leave any partial
	// output visible to the caller.
	Encode(p Payload) ([]byte, error)
}

// summaryLines returns the shared key/value header block in its fixed order.
func summaryLines(p Payload) [][2]string {
	return [][2]string{
		{"Report", p.Title},
		{"Date Range", p.DateRangeLabel},
		{"Generated", p.GeneratedLabel},
		{"Total Records", strconv.Itoa(p.Summary.Total)},
		{"Planned Records", strconv.Itoa(p.Summary.Planned)},
		{"Completed Records", strconv.Itoa(p.Summary.Completed)},
		{"Cancelled Records", strconv.Itoa(p.Summary.Cancelled)},
	}
}
