package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// PopplerRasterizer renders pages by running Poppler's pdftoppm.
type PopplerRasterizer struct {
	path string
}

// NewPopplerRasterizer returns a rasterizer using the pdftoppm binary at path
// (looked up in PATH when it has no separator).
func NewPopplerRasterizer(path string) (*PopplerRasterizer, error) {
	if path == "" {
		path = "pdftoppm"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm not available: %w", err)
	}
	return &PopplerRasterizer{path: bin}, nil
}

// Rasterize renders all pages to PNG files in a temporary directory that is removed by Close.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, data []byte, dpi int) (Pages, error) {
	dir, err := os.MkdirTemp("", "docqa-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	in := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(in, data, 0600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("write input: %w", err)
	}
	cmd := exec.CommandContext(ctx, r.path, "-r", strconv.Itoa(dpi), "-png", in, filepath.Join(dir, "page"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	files, err := pageFiles(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return &filePages{dir: dir, files: files}, nil
}

// pageFiles lists page-N.png outputs in page order. pdftoppm zero-pads N to
// the width of the page count, so the number is parsed rather than sorted lexically.
func pageFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	num := func(p string) int {
		base := strings.TrimSuffix(filepath.Base(p), ".png")
		n, _ := strconv.Atoi(strings.TrimPrefix(base, "page-"))
		return n
	}
	sort.Slice(matches, func(i, j int) bool { return num(matches[i]) < num(matches[j]) })
	return matches, nil
}

type filePages struct {
	dir   string
	files []string
}

func (p *filePages) Len() int { return len(p.files) }

func (p *filePages) Image(i int) (image.Image, error) {
	f, err := os.Open(p.files[i])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func (p *filePages) Close() error { return os.RemoveAll(p.dir) }
