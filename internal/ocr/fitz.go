//go:build cgo
// +build cgo

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer renders pages in-process with MuPDF. It requires CGO.
type FitzRasterizer struct{}

// NewFitzRasterizer returns a MuPDF rasterizer.
func NewFitzRasterizer() (*FitzRasterizer, error) {
	return &FitzRasterizer{}, nil
}

// Rasterize opens data with MuPDF. Pages are rendered lazily by Image.
func (r *FitzRasterizer) Rasterize(ctx context.Context, data []byte, dpi int) (Pages, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &fitzPages{doc: doc, dpi: float64(dpi)}, nil
}

type fitzPages struct {
	doc *fitz.Document
	dpi float64
}

func (p *fitzPages) Len() int { return p.doc.NumPage() }

func (p *fitzPages) Image(i int) (image.Image, error) {
	img, err := p.doc.ImageDPI(i, p.dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (p *fitzPages) Close() error { return p.doc.Close() }
