// Package pdfdoc renders simple A4 text documents: a title, label/value rows and paragraphs.
package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 7.0
)

type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// New starts a document with a bold title on its first page.
func New(title string) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	d := &Document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 11)
	return d
}

// Subtitle writes a bold section heading.
func (d *Document) Subtitle(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 11)
}

// Row writes "label: value" with the label in bold.
func (d *Document) Row(label, value string) {
	d.pdf.SetFont(fontFamily, "B", 11)
	d.pdf.CellFormat(60, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 11)
	d.pdf.MultiCell(0, lineHeight, d.tr(value), "", "L", false)
}

// Paragraph writes wrapped text.
func (d *Document) Paragraph(text string) {
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
}

// Table writes a header row followed by data rows; widths are in millimetres.
func (d *Document) Table(widths []float64, header []string, rows [][]string) {
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], lineHeight, d.tr(h), "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "", 10)
	for _, row := range rows {
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(cell), "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.SetFont(fontFamily, "", 11)
}

func (d *Document) Space() {
	d.pdf.Ln(lineHeight)
}

// Bytes finishes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
