// Package ocr rasterizes PDF pages and recognises their text.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultDPI is the rasterization resolution used for recognition.
const DefaultDPI = 200

// Pages is a rasterized document. Close releases any backing resources.
type Pages interface {
	Len() int
	Image(i int) (image.Image, error)
	Close() error
}

// Rasterizer renders every page of a PDF to an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, dpi int) (Pages, error)
}

// Recognizer returns the text found in the image file at imagePath.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
	Close() error
}

// Engine recognises the text of every page of a PDF, one section per page.
type Engine struct {
	rasterizer  Rasterizer
	recognizer  Recognizer
	dpi         int
	maxPages    int
	pageTimeout time.Duration
	tempDir     string
	logger      *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for page-level failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDPI sets the rasterization resolution.
func WithDPI(dpi int) EngineOption {
	return func(e *Engine) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithMaxPages limits how many pages are recognised. Zero means all pages.
func WithMaxPages(n int) EngineOption {
	return func(e *Engine) { e.maxPages = n }
}

// WithPageTimeout bounds each page's recognition call.
func WithPageTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.pageTimeout = d }
}

// WithTempDir sets where page images are written. Empty means os.TempDir().
func WithTempDir(dir string) EngineOption {
	return func(e *Engine) { e.tempDir = dir }
}

// NewEngine returns an engine that rasterizes with r and recognises with rec.
func NewEngine(r Rasterizer, rec Recognizer, opts ...EngineOption) *Engine {
	e := &Engine{
		rasterizer: r,
		recognizer: rec,
		dpi:        DefaultDPI,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Recognize rasterizes data and recognises each page. A page whose recognition
// fails yields an empty section; only rasterization failure or cancellation
// returns an error.
func (e *Engine) Recognize(ctx context.Context, data []byte) ([]string, error) {
	pages, err := e.rasterizer.Rasterize(ctx, data, e.dpi)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	defer pages.Close()

	n := pages.Len()
	if e.maxPages > 0 && n > e.maxPages {
		e.logger.Info("ocr page limit reached", zap.Int("pages", n), zap.Int("max_pages", e.maxPages))
		n = e.maxPages
	}
	sections := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.recognizePage(ctx, pages, i)
		if err != nil {
			e.logger.Debug("ocr page failed", zap.Int("page", i+1), zap.Error(err))
			text = ""
		}
		sections = append(sections, text)
	}
	return sections, nil
}

// recognizePage writes page i to a temporary PNG, recognises it, and removes
// the file on every path out, including a panic in the recognizer.
func (e *Engine) recognizePage(ctx context.Context, pages Pages, i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("recognizer panicked: %v", r)
		}
	}()
	img, err := pages.Image(i)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	f, err := os.CreateTemp(e.tempDir, "docqa-page-*.png")
	if err != nil {
		return "", fmt.Errorf("create page image: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write page image: %w", err)
	}

	if e.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.pageTimeout)
		defer cancel()
	}
	raw, err := e.recognizer.Recognize(ctx, path)
	if err != nil {
		return "", err
	}
	return joinLines(raw), nil
}

// joinLines trims every recognised line and drops blank ones.
func joinLines(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
