// Package render draws laid-out RDO pages onto a Surface. The fpdf-backed surface
// produces the PDF; the Recorder keeps the primitives in memory for tests and
// dry runs.
package render

import "github.com/a3tai/mcp-rdo-report/internal/layout"

// Font styles
const (
	StyleNormal = ""
	StyleBold   = "B"
)

// Fill styles for Rect and Circle
const (
	Stroke     = "D"
	Fill       = "F"
	FillStroke = "FD"
)

// Surface is the drawing target. Coordinates are mm from the top-left corner of
// the page, text is positioned on its baseline.
type Surface interface {
	AddPage()
	PageCount() int

	SetFont(style string, size float64)
	SetLineWidth(w float64)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetTextColor(r, g, b int)

	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, style string)
	Circle(x, y, r float64, style string)

	Text(x, y float64, s string)
	RotatedText(x, y, angle float64, s string)
	// TextWidth measures s in the current font.
	TextWidth(s string) float64

	// Image places an encoded image (jpg or png) inside the box.
	Image(name string, data []byte, format string, x, y, w, h float64) error
}

// Align is the horizontal anchor of a text run
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func textAt(s Surface, x, y float64, text string, align Align) {
	switch align {
	case AlignCenter:
		x -= s.TextWidth(text) / 2
	case AlignRight:
		x -= s.TextWidth(text)
	}
	s.Text(x, y, text)
}

// surfaceMeasurer adapts a Surface to layout.Measurer so wrapping on the page
// uses the real font metrics.
type surfaceMeasurer struct {
	s Surface
}

func (m surfaceMeasurer) TextWidth(text string, fontSize float64, bold bool) float64 {
	style := StyleNormal
	if bold {
		style = StyleBold
	}
	m.s.SetFont(style, fontSize)
	return m.s.TextWidth(text)
}

var _ layout.Measurer = surfaceMeasurer{}
