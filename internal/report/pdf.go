package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// brandLine appears in the running footer of every PDF page.
const brandLine = "CVM Planner"

// PDFEncoder renders the paginated-document encoding via gofpdf: a landscape
// page with an optional logo glyph, title/date-range/generated lines, an
// optional summary line, and a paginated zebra-striped table with the table
// header repeated on every page.
type PDFEncoder struct{}

// NewPDFEncoder returns the paginated-document encoder. Leave the exporter's
// PDF slot nil instead to model an unavailable capability.
func NewPDFEncoder() *PDFEncoder { return &PDFEncoder{} }

func (*PDFEncoder) Extension() string { return "pdf" }

func (*PDFEncoder) ContentType() string { return "application/pdf" }

// Encode builds the document fully in memory.
func (*PDFEncoder) Encode(p Payload) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		footer := fmt.Sprintf("%s  |  Page %d of {nb}", brandLine, pdf.PageNo())
		pdf.CellFormat(0, 8, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	if p.IncludeLogo {
		pdf.SetFillColor(30, 64, 175)
		pdf.Rect(left, pdf.GetY(), 16, 10, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(left, pdf.GetY())
		pdf.CellFormat(16, 10, "CVM", "", 0, "C", false, 0, "")
		pdf.Ln(12)
	}

	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, p.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(75, 85, 99)
	pdf.CellFormat(0, 6, "Date Range: "+p.DateRangeLabel, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+p.GeneratedLabel, "", 1, "L", false, 0, "")
	if p.IncludeSummary {
		line := fmt.Sprintf("Total: %d  |  Planned: %d  |  Completed: %d  |  Cancelled: %d",
			p.Summary.Total, p.Summary.Planned, p.Summary.Completed, p.Summary.Cancelled)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	colW := usable / float64(len(p.Columns))
	const rowH = 6.0
	breakAt := pageH - 20 // keep clear of the footer band

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(55, 65, 81)
		pdf.SetTextColor(255, 255, 255)
		for _, col := range p.Columns {
			pdf.CellFormat(colW, rowH, ToTitleCase(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(17, 24, 39)
	}

	drawHeader()
	for i, row := range p.Rows {
		if pdf.GetY()+rowH > breakAt {
			pdf.AddPage()
			drawHeader()
		}
		fill := i%2 == 1
		pdf.SetFillColor(243, 244, 246)
		for _, col := range p.Columns {
			pdf.CellFormat(colW, rowH, row[col], "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf encode: %w", err)
	}
	return buf.Bytes(), nil
}
