package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// qpdfWarningExit is the qpdf exit status for "succeeded with warnings"; the output file is written.
const qpdfWarningExit = 3

// qpdfRepairer returns a repair step that rewrites the document with the qpdf
// binary at path. qpdf reconstructs damaged cross-reference tables while copying.
func qpdfRepairer(path string) func(ctx context.Context, data []byte) ([]byte, error) {
	return func(ctx context.Context, data []byte) ([]byte, error) {
		bin, err := exec.LookPath(path)
		if err != nil {
			return nil, fmt.Errorf("qpdf not available: %w", err)
		}
		dir, err := os.MkdirTemp("", "docqa-qpdf-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		in := filepath.Join(dir, "in.pdf")
		out := filepath.Join(dir, "out.pdf")
		if err := os.WriteFile(in, data, 0600); err != nil {
			return nil, fmt.Errorf("write input: %w", err)
		}
		cmd := exec.CommandContext(ctx, bin, in, out)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) || exitErr.ExitCode() != qpdfWarningExit {
				return nil, fmt.Errorf("qpdf: %w: %s", err, strings.TrimSpace(stderr.String()))
			}
		}
		repaired, err := os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("read qpdf output: %w", err)
		}
		return repaired, nil
	}
}

// rewritePDFCPU reads the document with pdfcpu's relaxed parser, which rebuilds
// the cross-reference table from object scanning when needed, and writes it
// back out with pdfcpu's own writer.
func rewritePDFCPU(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pctx, err := api.ReadContext(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	if err := api.OptimizeContext(pctx); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize: %w", err)
	}
	var buf bytes.Buffer
	if err := api.WriteContext(pctx, &buf); err != nil {
		return nil, fmt.Errorf("pdfcpu write: %w", err)
	}
	return buf.Bytes(), nil
}
