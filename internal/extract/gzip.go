package extract

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/docqa/internal/models"
)

// maxGzipInflated caps decompressed size so a small archive cannot exhaust memory.
const maxGzipInflated = 256 << 20

// extractGzip decompresses data and extracts the inner file, named by the
// gzip header or by filename without its .gz suffix. Inner files without a
// known extension are read as plain text. The method is "gz+<inner method>".
func (e *Extractor) extractGzip(ctx context.Context, filename string, data []byte) models.ExtractionResult {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return models.FailedResult(string(models.FormatGzip), fmt.Sprintf("open gzip: %v", err))
	}
	defer zr.Close()
	inner, err := io.ReadAll(io.LimitReader(zr, maxGzipInflated+1))
	if err != nil {
		return models.FailedResult(string(models.FormatGzip), fmt.Sprintf("decompress: %v", err))
	}
	if len(inner) > maxGzipInflated {
		return models.FailedResult(string(models.FormatGzip), "decompressed content too large")
	}

	innerName := zr.Name
	if innerName == "" {
		innerName = strings.TrimSuffix(filename, "."+Extension(filename))
	}
	var res models.ExtractionResult
	if format, ok := extensionFormats[Extension(innerName)]; ok && format != models.FormatGzip {
		res = e.run(ctx, format, innerName, inner)
	} else {
		res = e.run(ctx, models.FormatText, innerName, inner)
	}
	res.Method = string(models.FormatGzip) + "+" + res.Method
	return res
}
