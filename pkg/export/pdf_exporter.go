package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 277.0
	minColWidth = 14.0
)

// PDFExporter renders datasets into a landscape table, one row per record.
// Columns listed in Wide get three times the share of the others.
type PDFExporter struct {
	Wide map[string]bool
}

// NewPDFExporter constructs a PDF exporter that widens free-text columns.
func NewPDFExporter(wide ...string) *PDFExporter {
	set := make(map[string]bool, len(wide))
	for _, w := range wide {
		set[w] = true
	}
	return &PDFExporter{Wide: set}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := e.columnWidths(data.Headers)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(fitCell(pdf, row[header], widths[i])), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(headers []string) []float64 {
	shares := make([]float64, len(headers))
	var total float64
	for i, h := range headers {
		shares[i] = 1
		if e.Wide[h] {
			shares[i] = 3
		}
		total += shares[i]
	}
	widths := make([]float64, len(headers))
	for i := range shares {
		widths[i] = pageWidth * shares[i] / total
		if widths[i] < minColWidth {
			widths[i] = minColWidth
		}
	}
	return widths
}

// fitCell trims text with an ellipsis so it stays on one table line.
func fitCell(pdf *gofpdf.Fpdf, text string, width float64) string {
	text = strings.Join(strings.Fields(text), " ")
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
