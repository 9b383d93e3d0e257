//go:build !cgo
// +build !cgo

package ocr

import (
	"context"
	"errors"
)

// GosseractRecognizer stub type when built without CGO (see gosseract.go for real implementation).
type GosseractRecognizer struct{}

// NewGosseractRecognizer returns an error when built without CGO (libtesseract not available).
func NewGosseractRecognizer(...string) (*GosseractRecognizer, error) {
	return nil, errors.New("gosseract recognizer requires CGO; build with CGO_ENABLED=1 and libtesseract, or use the tesseract recognizer")
}

// Recognize is never reached; NewGosseractRecognizer always fails without CGO.
func (r *GosseractRecognizer) Recognize(context.Context, string) (string, error) {
	return "", errors.New("gosseract recognizer requires CGO")
}

// Close does nothing.
func (r *GosseractRecognizer) Close() error { return nil }
