// Package pdf extracts text from PDF files through an ordered chain of tiers:
// two direct text-layer parsers, two repair strategies that retry the parsers,
// and OCR on the original and repaired bytes.
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperjump/docqa/internal/models"
	"go.uber.org/zap"
)

// PageSeparator joins page texts into the full document text.
const PageSeparator = "\n\n"

// DefaultMinTextLength is the trimmed text length a tier must exceed to succeed.
const DefaultMinTextLength = 50

// MethodOCR labels text produced by recognising rasterized pages.
const MethodOCR = "ocr"

// Method is a direct text-layer parser. Extract returns one section per page.
type Method struct {
	Name    string
	Extract func(ctx context.Context, data []byte) ([]string, error)
}

// Repairer rewrites a PDF container so the direct parsers can retry it.
type Repairer struct {
	Name   string
	Repair func(ctx context.Context, data []byte) ([]byte, error)
}

// OCR recognises the text of every page in a PDF, one section per page.
type OCR interface {
	Recognize(ctx context.Context, data []byte) ([]string, error)
}

// Options tunes the pipeline.
type Options struct {
	// MinTextLength is the trimmed length (in characters) a tier must exceed.
	MinTextLength int
	// RepairTimeout bounds each repair attempt. Zero means no limit.
	RepairTimeout time.Duration
	// QPDFPath is the qpdf binary used by the first repair strategy.
	QPDFPath string
}

// Pipeline runs the tier chain. It is safe for sequential use only.
type Pipeline struct {
	opts    Options
	direct  []Method
	repairs []Repairer
	ocr     OCR
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for tier attempts.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOCR enables the OCR tiers.
func WithOCR(o OCR) Option {
	return func(p *Pipeline) { p.ocr = o }
}

// NewPipeline returns a pipeline using ledongthuc/pdf and pdfcpu as direct parsers,
// and qpdf and a pdfcpu rewrite as repair strategies. OCR is off unless WithOCR is given.
func NewPipeline(opts Options, options ...Option) *Pipeline {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = DefaultMinTextLength
	}
	if opts.QPDFPath == "" {
		opts.QPDFPath = "qpdf"
	}
	p := &Pipeline{
		opts: opts,
		direct: []Method{
			{Name: "ledongthuc", Extract: extractLedongthuc},
			{Name: "pdfcpu", Extract: extractPDFCPU},
		},
		repairs: []Repairer{
			{Name: "qpdf", Repair: qpdfRepairer(opts.QPDFPath)},
			{Name: "rewrite", Repair: rewritePDFCPU},
		},
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

type variant struct {
	name string
	data []byte
}

// Extract runs the tiers in order and returns the first successful result.
// Errors and panics inside a tier only make that tier fail; the pipeline
// reports failure with method "failed" when every tier is exhausted.
func (p *Pipeline) Extract(ctx context.Context, data []byte) models.ExtractionResult {
	if res, ok := p.tryDirect(ctx, data, ""); ok {
		return res
	}

	var repaired []variant
	for _, r := range p.repairs {
		if err := ctx.Err(); err != nil {
			return models.FailedResult(models.MethodFailed, err.Error())
		}
		fixed, err := p.repair(ctx, r, data)
		if err != nil {
			p.logger.Debug("pdf repair failed", zap.String("repair", r.Name), zap.Error(err))
			continue
		}
		repaired = append(repaired, variant{name: r.Name, data: fixed})
		if res, ok := p.tryDirect(ctx, fixed, r.Name+"+"); ok {
			return res
		}
	}

	if p.ocr != nil {
		candidates := append([]variant{{data: data}}, repaired...)
		for _, v := range candidates {
			if err := ctx.Err(); err != nil {
				return models.FailedResult(models.MethodFailed, err.Error())
			}
			label := MethodOCR
			if v.name != "" {
				label = v.name + "+" + MethodOCR
			}
			res, ok := p.attempt(label, func() ([]string, error) {
				return p.ocr.Recognize(ctx, v.data)
			})
			if ok {
				return res
			}
		}
	}

	return models.FailedResult(models.MethodFailed, "all PDF extraction tiers failed")
}

func (p *Pipeline) tryDirect(ctx context.Context, data []byte, prefix string) (models.ExtractionResult, bool) {
	for _, m := range p.direct {
		if ctx.Err() != nil {
			break
		}
		res, ok := p.attempt(prefix+m.Name, func() ([]string, error) {
			return m.Extract(ctx, data)
		})
		if ok {
			return res, true
		}
	}
	return models.ExtractionResult{}, false
}

// attempt runs one tier. A returned error, a panic, or text at or below the
// threshold all count as failure.
func (p *Pipeline) attempt(label string, fn func() ([]string, error)) (res models.ExtractionResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("pdf tier panicked", zap.String("method", label), zap.Any("panic", r))
			res, ok = models.ExtractionResult{}, false
		}
	}()
	sections, err := fn()
	if err != nil {
		p.logger.Debug("pdf tier failed", zap.String("method", label), zap.Error(err))
		return models.ExtractionResult{}, false
	}
	res = models.NewExtractionResult(sections, PageSeparator, label)
	n := utf8.RuneCountInString(strings.TrimSpace(res.Text))
	if n <= p.opts.MinTextLength {
		p.logger.Debug("pdf tier below threshold",
			zap.String("method", label), zap.Int("chars", n), zap.Int("min", p.opts.MinTextLength))
		return models.ExtractionResult{}, false
	}
	p.logger.Debug("pdf tier succeeded", zap.String("method", label), zap.Int("pages", len(sections)), zap.Int("chars", n))
	return res, true
}

func (p *Pipeline) repair(ctx context.Context, r Repairer, data []byte) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("repair %s panicked: %v", r.Name, rec)
		}
	}()
	if p.opts.RepairTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RepairTimeout)
		defer cancel()
	}
	out, err = r.Repair(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("repair %s produced no output", r.Name)
	}
	return out, nil
}
