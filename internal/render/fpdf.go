package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/a3tai/mcp-rdo-report/internal/layout"
)

const fontFamily = "Helvetica"

// PDFSurface draws on an A4 portrait fpdf document with the core Helvetica
// font. Text is translated to Windows-1252 so Portuguese accents survive.
type PDFSurface struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFSurface creates an empty document titled title
func NewPDFSurface(title string) *PDFSurface {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("mcp-rdo-report", true)
	pdf.SetFont(fontFamily, StyleNormal, 10)

	return &PDFSurface{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// AddPage implements Surface
func (p *PDFSurface) AddPage() { p.pdf.AddPage() }

// PageCount implements Surface
func (p *PDFSurface) PageCount() int { return p.pdf.PageCount() }

// SetFont implements Surface
func (p *PDFSurface) SetFont(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

// SetLineWidth implements Surface
func (p *PDFSurface) SetLineWidth(w float64) { p.pdf.SetLineWidth(w) }

// SetDrawColor implements Surface
func (p *PDFSurface) SetDrawColor(r, g, b int) { p.pdf.SetDrawColor(r, g, b) }

// SetFillColor implements Surface
func (p *PDFSurface) SetFillColor(r, g, b int) { p.pdf.SetFillColor(r, g, b) }

// SetTextColor implements Surface
func (p *PDFSurface) SetTextColor(r, g, b int) { p.pdf.SetTextColor(r, g, b) }

// Line implements Surface
func (p *PDFSurface) Line(x1, y1, x2, y2 float64) { p.pdf.Line(x1, y1, x2, y2) }

// Rect implements Surface
func (p *PDFSurface) Rect(x, y, w, h float64, style string) { p.pdf.Rect(x, y, w, h, style) }

// Circle implements Surface
func (p *PDFSurface) Circle(x, y, r float64, style string) { p.pdf.Circle(x, y, r, style) }

// Text implements Surface
func (p *PDFSurface) Text(x, y float64, s string) { p.pdf.Text(x, y, p.tr(s)) }

// RotatedText implements Surface
func (p *PDFSurface) RotatedText(x, y, angle float64, s string) {
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(angle, x, y)
	p.pdf.Text(x, y, p.tr(s))
	p.pdf.TransformEnd()
}

// TextWidth implements Surface
func (p *PDFSurface) TextWidth(s string) float64 {
	return p.pdf.GetStringWidth(p.tr(s))
}

// Image implements Surface
func (p *PDFSurface) Image(name string, data []byte, format string, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: format}
	info := p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || !p.pdf.Ok() {
		err := p.pdf.Error()
		if err == nil {
			err = fmt.Errorf("unsupported image type %q", format)
		}
		// registration errors stick to the document; clear it so the page can go on
		p.pdf.ClearError()
		return fmt.Errorf("register image %s: %w", name, err)
	}
	p.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

// Err returns the first error recorded by the document
func (p *PDFSurface) Err() error { return p.pdf.Error() }

// Output writes the finished PDF
func (p *PDFSurface) Output(w io.Writer) error {
	if err := p.pdf.Error(); err != nil {
		return fmt.Errorf("pdf document: %w", err)
	}
	return p.pdf.Output(w)
}

var _ Surface = (*PDFSurface)(nil)
