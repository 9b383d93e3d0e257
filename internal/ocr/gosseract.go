//go:build cgo
// +build cgo

package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// GosseractRecognizer runs Tesseract in-process through gosseract. It requires CGO and libtesseract.
type GosseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewGosseractRecognizer returns a recognizer for the given Tesseract languages (default "eng").
func NewGosseractRecognizer(languages ...string) (*GosseractRecognizer, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	return &GosseractRecognizer{client: client}, nil
}

// Recognize returns the text Tesseract finds in the image. The client is not
// reentrant, so calls are serialized.
func (r *GosseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client.
func (r *GosseractRecognizer) Close() error {
	return r.client.Close()
}
