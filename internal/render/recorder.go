package render

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-rdo-report/internal/layout"
)

// Op is one recorded drawing primitive
type Op struct {
	Page  int       `json:"page"`
	Name  string    `json:"name"`
	Args  []float64 `json:"args,omitempty"`
	Text  string    `json:"text,omitempty"`
	Style string    `json:"style,omitempty"`
	Size  float64   `json:"size,omitempty"`
}

// Recorder is a Surface that keeps every primitive in memory. Text widths come
// from layout.DefaultMeasurer.
type Recorder struct {
	Ops []Op

	page     int
	style    string
	size     float64
	measurer layout.Measurer
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{measurer: layout.DefaultMeasurer, size: 10}
}

func (r *Recorder) add(op Op) {
	op.Page = r.page
	r.Ops = append(r.Ops, op)
}

// AddPage implements Surface
func (r *Recorder) AddPage() {
	r.page++
	r.add(Op{Name: "page"})
}

// PageCount implements Surface
func (r *Recorder) PageCount() int { return r.page }

// SetFont implements Surface
func (r *Recorder) SetFont(style string, size float64) {
	r.style, r.size = style, size
}

// SetLineWidth implements Surface
func (r *Recorder) SetLineWidth(w float64) {}

// SetDrawColor implements Surface
func (r *Recorder) SetDrawColor(red, green, blue int) {}

// SetFillColor implements Surface
func (r *Recorder) SetFillColor(red, green, blue int) {}

// SetTextColor implements Surface
func (r *Recorder) SetTextColor(red, green, blue int) {
	r.add(Op{Name: "color", Args: []float64{float64(red), float64(green), float64(blue)}})
}

// Line implements Surface
func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.add(Op{Name: "line", Args: []float64{x1, y1, x2, y2}})
}

// Rect implements Surface
func (r *Recorder) Rect(x, y, w, h float64, style string) {
	r.add(Op{Name: "rect", Args: []float64{x, y, w, h}, Style: style})
}

// Circle implements Surface
func (r *Recorder) Circle(x, y, radius float64, style string) {
	r.add(Op{Name: "circle", Args: []float64{x, y, radius}, Style: style})
}

// Text implements Surface
func (r *Recorder) Text(x, y float64, s string) {
	r.add(Op{Name: "text", Args: []float64{x, y}, Text: s, Style: r.style, Size: r.size})
}

// RotatedText implements Surface
func (r *Recorder) RotatedText(x, y, angle float64, s string) {
	r.add(Op{Name: "rotated_text", Args: []float64{x, y, angle}, Text: s, Style: r.style, Size: r.size})
}

// TextWidth implements Surface
func (r *Recorder) TextWidth(s string) float64 {
	return r.measurer.TextWidth(s, r.size, r.style == StyleBold)
}

// Image implements Surface
func (r *Recorder) Image(name string, data []byte, format string, x, y, w, h float64) error {
	if len(data) == 0 {
		return fmt.Errorf("image %s has no data", name)
	}
	r.add(Op{Name: "image", Args: []float64{x, y, w, h}, Text: name, Style: format})
	return nil
}

// Texts returns the text runs drawn on a page (1-based), in drawing order
func (r *Recorder) Texts(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Page == page && (op.Name == "text" || op.Name == "rotated_text") {
			out = append(out, op.Text)
		}
	}
	return out
}

// PageText joins the text runs of a page with spaces
func (r *Recorder) PageText(page int) string {
	return strings.Join(r.Texts(page), " ")
}

// Count returns how many primitives of a kind were drawn on a page; page 0 counts every page
func (r *Recorder) Count(page int, name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name && (page == 0 || op.Page == page) {
			n++
		}
	}
	return n
}

var _ Surface = (*Recorder)(nil)
