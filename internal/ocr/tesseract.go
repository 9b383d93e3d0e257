package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractCLI recognises images by running the tesseract binary.
type TesseractCLI struct {
	path      string
	languages []string
}

// NewTesseractCLI returns a recognizer using the tesseract binary at path.
func NewTesseractCLI(path string, languages ...string) (*TesseractCLI, error) {
	if path == "" {
		path = "tesseract"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("tesseract not available: %w", err)
	}
	return &TesseractCLI{path: bin, languages: languages}, nil
}

func (t *TesseractCLI) args(imagePath string) []string {
	args := []string{imagePath, "stdout"}
	if len(t.languages) > 0 {
		args = append(args, "-l", strings.Join(t.languages, "+"))
	}
	return args
}

// Recognize runs "tesseract <image> stdout [-l langs]" and returns its output.
func (t *TesseractCLI) Recognize(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, t.path, t.args(imagePath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Close does nothing; each call runs its own process.
func (t *TesseractCLI) Close() error { return nil }
