package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspection summarises a rendered RDO PDF
type Inspection struct {
	Path      string   `json:"path"`
	Size      int64    `json:"size"`
	Pages     int      `json:"pages"`
	Days      int      `json:"days"`
	Complete  bool     `json:"complete"`   // page count is a whole number of days
	TextPages int      `json:"text_pages"` // pages with extractable text
	PageTexts []string `json:"page_texts,omitempty"`
}

// Inspector checks rendered reports with pdfcpu and extracts their text
type Inspector struct {
	maxFileSize int64
	maxTextSize int
}

// NewInspector creates an inspector refusing files above maxFileSize bytes
func NewInspector(maxFileSize int64) *Inspector {
	return &Inspector{
		maxFileSize: maxFileSize,
		maxTextSize: 1024 * 1024,
	}
}

// Inspect validates the PDF at path and reads back its pages
func (i *Inspector) Inspect(path string, withText bool) (*Inspection, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", path)
	}
	if i.maxFileSize > 0 && info.Size() > i.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), i.maxFileSize)
	}

	pages, err := pageCount(path)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		Path:     path,
		Size:     info.Size(),
		Pages:    pages,
		Days:     pages / 3,
		Complete: pages > 0 && pages%3 == 0,
	}

	texts, err := i.pageTexts(path)
	if err != nil {
		return nil, err
	}
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			out.TextPages++
		}
	}
	if withText {
		out.PageTexts = texts
	}
	return out, nil
}

// pageCount reads the document structure with pdfcpu in relaxed validation mode
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}

func (i *Inspector) pageTexts(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	texts := make([]string, 0, reader.NumPage())
	total := 0
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		if total+len(content) > i.maxTextSize {
			content = content[:max(i.maxTextSize-total, 0)]
		}
		total += len(content)
		texts = append(texts, content)
	}
	return texts, nil
}
