//go:build !cgo
// +build !cgo

package ocr

import (
	"context"
	"errors"
)

// FitzRasterizer stub type when built without CGO (see fitz.go for real implementation).
type FitzRasterizer struct{}

// NewFitzRasterizer returns an error when built without CGO (MuPDF not available).
func NewFitzRasterizer() (*FitzRasterizer, error) {
	return nil, errors.New("fitz rasterizer requires CGO; build with CGO_ENABLED=1 and MuPDF, or use the pdftoppm rasterizer")
}

// Rasterize is never reached; NewFitzRasterizer always fails without CGO.
func (r *FitzRasterizer) Rasterize(context.Context, []byte, int) (Pages, error) {
	return nil, errors.New("fitz rasterizer requires CGO")
}
