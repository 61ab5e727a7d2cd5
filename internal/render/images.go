package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WEBP decoding for photos

	"github.com/a3tai/mcp-rdo-report/internal/layout"
)

// imageDPI is the resolution images are resampled to before embedding
const imageDPI = 150

// ErrImageTooLarge is returned for image files above the loader limit
var ErrImageTooLarge = errors.New("image file too large")

// ImageLoader loads the photos, logos and signature referenced by a document
type ImageLoader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader reads images from disk. Relative paths are resolved against Root;
// Resolve, when set, is applied first and may reject the path.
type FileLoader struct {
	Root     string
	MaxBytes int64
	Resolve  func(path string) (string, error)
}

// Load implements ImageLoader
func (l FileLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved := path
	if l.Resolve != nil {
		var err error
		if resolved, err = l.Resolve(path); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(resolved) && l.Root != "" {
		resolved = filepath.Join(l.Root, resolved)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("cannot access image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image path is a directory: %s", path)
	}
	if l.MaxBytes > 0 && info.Size() > l.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrImageTooLarge, info.Size(), l.MaxBytes)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

func mmToPx(mm float64) int {
	return max(1, int(math.Round(mm/25.4*imageDPI)))
}

// coverJPEG scales and centre-crops img so it fills a w x h mm box
func coverJPEG(img image.Image, w, h float64) ([]byte, error) {
	filled := imaging.Fill(img, mmToPx(w), mmToPx(h), imaging.Center, imaging.Lanczos)
	return encodeJPEG(flatten(filled))
}

// containBox returns the largest box with the image aspect ratio centred in box
func containBox(bounds image.Rectangle, box layout.Rect) layout.Rect {
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw <= 0 || ih <= 0 {
		return box
	}
	out := box
	if iw/ih > box.W/box.H {
		out.H = box.W * ih / iw
	} else {
		out.W = box.H * iw / ih
	}
	out.X = box.X + (box.W-out.W)/2
	out.Y = box.Y + (box.H-out.H)/2
	return out
}

// containJPEG fits img inside box without cropping and returns the drawn box
func containJPEG(img image.Image, box layout.Rect) ([]byte, layout.Rect, error) {
	target := containBox(img.Bounds(), box)
	fitted := imaging.Fit(img, mmToPx(target.W), mmToPx(target.H), imaging.Lanczos)
	data, err := encodeJPEG(flatten(fitted))
	return data, target, err
}

// flatten composes img over white so transparent logos keep a clean background in JPEG
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
