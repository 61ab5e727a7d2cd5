package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/layout"
	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// DefaultTitle is the PDF document title
const DefaultTitle = "Relatório Diário de Obras - RDO"

// DefaultHeading is printed in the centre of every page header
var DefaultHeading = []string{
	"RDO - RELATÓRIO DIÁRIO DE OBRAS",
	"SABESP - COMPANHIA DE SANEAMENTO BÁSICO DO ESTADO DE SÃO PAULO",
	"AMPLIAÇÃO DA CAPACIDADE DE TRATAMENTO DA FASE SÓLIDA-ETE BARUERI PARA 16M³/S",
}

// DefaultSignatureLabels are printed under the two signature lines
var DefaultSignatureLabels = [2]string{"RESPONSAVEL CONSBEM", "FISCALIZAÇÃO SABESP"}

// Options tune the static parts of the printed form
type Options struct {
	Title           string
	Heading         []string
	Legend          string
	LogoLeft        string
	LogoRight       string
	SignatureLabels [2]string
}

// Result describes a finished render
type Result struct {
	Pages        int                   `json:"pages"`
	Days         int                   `json:"days"`
	ImagesDrawn  int                   `json:"images_drawn"`
	ImagesFailed int                   `json:"images_failed"`
	Problems     []*rdoerrors.RDOError `json:"problems,omitempty"`
	Blocks       []layout.PageBlock    `json:"-"`
}

// Renderer turns a report document into drawn pages
type Renderer struct {
	loader ImageLoader
	logger *zap.Logger
	opts   Options
}

// NewRenderer creates a renderer. A nil loader reads images from the working directory.
func NewRenderer(loader ImageLoader, logger *zap.Logger, opts Options) *Renderer {
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if len(opts.Heading) == 0 {
		opts.Heading = DefaultHeading
	}
	if opts.SignatureLabels == ([2]string{}) {
		opts.SignatureLabels = DefaultSignatureLabels
	}
	return &Renderer{loader: loader, logger: logger, opts: opts}
}

// Render draws every day of doc on s. Missing images and truncated content are
// reported in the result, only cancellation and empty documents fail the call.
func (r *Renderer) Render(ctx context.Context, doc report.Document, s Surface) (*Result, error) {
	if len(doc.Days) == 0 {
		return nil, rdoerrors.New(rdoerrors.KindInvalidDocument, "document has no days")
	}
	doc = report.RecomputeDerivedFields(doc)

	lay := layout.New(surfaceMeasurer{s}, r.logger)
	if r.opts.Legend != "" {
		lay.WithLegend(r.opts.Legend)
	}
	blocks := lay.Paginate(doc.Days)

	p := &pass{
		ctx:      ctx,
		r:        r,
		s:        s,
		lay:      lay,
		doc:      doc,
		images:   make(map[string]loadedImage),
		prepared: make(map[string]preparedImage),
		res:      &Result{Days: len(doc.Days), Blocks: blocks},
	}

	s.AddPage()
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render cancelled: %w", err)
		}
		if b.NewPage {
			s.AddPage()
		}
		p.drawBlock(b)
	}

	p.res.Problems = append(layout.Overflows(blocks), p.res.Problems...)
	p.res.Pages = s.PageCount()
	r.logger.Info("report rendered",
		zap.Int("days", p.res.Days),
		zap.Int("pages", p.res.Pages),
		zap.Int("images_failed", p.res.ImagesFailed),
		zap.Int("problems", len(p.res.Problems)))
	return p.res, nil
}

// RenderPDF renders doc to a PDF written to w
func (r *Renderer) RenderPDF(ctx context.Context, doc report.Document, w io.Writer) (*Result, error) {
	s := NewPDFSurface(r.opts.Title)
	res, err := r.Render(ctx, doc, s)
	if err != nil {
		return nil, err
	}
	if err := s.Output(w); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return res, nil
}

// DefaultFilename names the PDF after the first day's RDO number and date
func DefaultFilename(doc report.Document) string {
	if len(doc.Days) == 0 {
		return "RDO_Completo.pdf"
	}
	number := strings.ReplaceAll(doc.Days[0].Number, "-A", "")
	date := doc.Days[0].Date
	switch {
	case number != "" && date != "":
		return fmt.Sprintf("RDO_%s_%s.pdf", number, date)
	case number != "":
		return fmt.Sprintf("RDO_%s.pdf", number)
	case date != "":
		return fmt.Sprintf("RDO_Ref_%s.pdf", date)
	}
	return "RDO_Completo.pdf"
}

type loadedImage struct {
	img image.Image
	err error
}

type preparedImage struct {
	data []byte
	box  layout.Rect
	err  error
}

// pass holds the state of one Render call
type pass struct {
	ctx      context.Context
	r        *Renderer
	s        Surface
	lay      *layout.Layouter
	doc      report.Document
	images   map[string]loadedImage
	prepared map[string]preparedImage
	res      *Result
}

func (p *pass) load(path string) (image.Image, error) {
	if cached, ok := p.images[path]; ok {
		return cached.img, cached.err
	}
	img, err := p.r.loader.Load(p.ctx, path)
	p.images[path] = loadedImage{img: img, err: err}
	return img, err
}

// drawImage places the image at path in box. Photos are cover-cropped, logos and
// signatures are fitted without cropping. A failed image leaves a marker on the page.
func (p *pass) drawImage(path string, box layout.Rect, cover bool, day int) {
	if strings.TrimSpace(path) == "" {
		return
	}

	mode := "contain"
	if cover {
		mode = "cover"
	}
	name := fmt.Sprintf("%s:%s:%.2fx%.2f", mode, path, box.W, box.H)

	prep, cached := p.prepared[name]
	if !cached {
		prep = p.prepare(path, box, cover)
		p.prepared[name] = prep
	}
	if prep.err == nil {
		// prep.box is relative to the box it was prepared for
		drawn := layout.Rect{X: box.X + prep.box.X, Y: box.Y + prep.box.Y, W: prep.box.W, H: prep.box.H}
		err := p.s.Image(name, prep.data, "jpg", drawn.X, drawn.Y, drawn.W, drawn.H)
		if err == nil {
			p.res.ImagesDrawn++
			return
		}
		prep.err = err
		p.prepared[name] = prep
		cached = false
	}

	p.res.ImagesFailed++
	p.s.SetFont(StyleNormal, 7)
	p.s.SetTextColor(0, 0, 0)
	p.s.Text(box.X+2, box.Y+box.H/2, "[Img Load Err]")
	if cached {
		// already reported for an earlier page
		return
	}
	p.res.Problems = append(p.res.Problems,
		rdoerrors.Wrap(rdoerrors.KindResourceNotFound, "image not drawn", prep.err).
			WithContext(path).WithDay(day))
	p.r.logger.Warn("image not drawn", zap.String("path", path), zap.Int("day", day), zap.Error(prep.err))
}

func (p *pass) prepare(path string, box layout.Rect, cover bool) preparedImage {
	img, err := p.load(path)
	if err != nil {
		return preparedImage{err: err}
	}
	if cover {
		data, err := coverJPEG(img, box.W, box.H)
		return preparedImage{data: data, box: layout.Rect{W: box.W, H: box.H}, err: err}
	}
	data, drawn, err := containJPEG(img, layout.Rect{W: box.W, H: box.H})
	return preparedImage{data: data, box: drawn, err: err}
}
