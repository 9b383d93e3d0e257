// Package extract provides text extraction from various document formats.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/pdf"
	"go.uber.org/zap"
)

// autoDetectedSuffix is appended to the label of a result found by probing.
const autoDetectedSuffix = " (auto-detected)"

// PDFExtractor turns PDF bytes into a result labelled with the tier that produced it.
type PDFExtractor interface {
	Extract(ctx context.Context, data []byte) models.ExtractionResult
}

// Extractor dispatches documents to per-format extractors by file extension,
// falling back to probing every format in a fixed order.
type Extractor struct {
	pdf    PDFExtractor
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDF sets the PDF pipeline. The default is pdf.NewPipeline without OCR.
func WithPDF(p PDFExtractor) Option {
	return func(e *Extractor) { e.pdf = p }
}

// WithLogger sets a logger for dispatch decisions.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor returns a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	if e.pdf == nil {
		e.pdf = pdf.NewPipeline(pdf.Options{}, pdf.WithLogger(e.logger))
	}
	return e
}

// ExtractFile reads the file at path and extracts it under its base name.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (models.ExtractionResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("read file: %w", err)
	}
	return e.Extract(ctx, filepath.Base(path), content), nil
}

// Extension returns the lower-cased text after the last '.' in filename, or "" if there is none.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Extract returns the text of data. The extension of filename selects the
// extractor; when it is unknown or that extractor fails, every format is
// probed in order and the first success is labelled "<format> (auto-detected)".
// When nothing succeeds the result has method "failed".
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) models.ExtractionResult {
	ext := Extension(filename)
	format, known := extensionFormats[ext]
	var mapped models.ExtractionResult
	if known {
		mapped = e.run(ctx, format, filename, data)
		if mapped.Success {
			return mapped
		}
		e.logger.Debug("extractor failed, probing other formats",
			zap.String("filename", filename), zap.String("format", string(format)), zap.String("reason", mapped.Failure))
	}

	for _, f := range probeOrder {
		if ctx.Err() != nil {
			break
		}
		if known && f == format {
			continue
		}
		if probe := probes[f]; probe != nil && !probe(data) {
			continue
		}
		res := e.run(ctx, f, filename, data)
		if res.Success {
			res.Method += autoDetectedSuffix
			e.logger.Debug("format auto-detected", zap.String("filename", filename), zap.String("method", res.Method))
			return res
		}
	}

	reason := "no extractor produced text"
	if known && mapped.Failure != "" {
		reason = fmt.Sprintf("%s: %s", format, mapped.Failure)
	}
	if err := ctx.Err(); err != nil {
		reason = err.Error()
	}
	return models.FailedResult(models.MethodFailed, reason)
}

// run invokes the extractor for format, labelling plain successes with the
// format name. PDF results keep their tier label.
func (e *Extractor) run(ctx context.Context, format models.Format, filename string, data []byte) models.ExtractionResult {
	switch format {
	case models.FormatPDF:
		return e.pdf.Extract(ctx, data)
	case models.FormatGzip:
		return e.extractGzip(ctx, filename, data)
	}
	fn := sectioners[format]
	if fn == nil {
		return models.FailedResult(string(format), "unsupported format")
	}
	sections, sep, err := fn(data)
	if err != nil {
		return models.FailedResult(string(format), err.Error())
	}
	return models.NewExtractionResult(sections, sep, string(format))
}
