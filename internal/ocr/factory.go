package ocr

import "fmt"

const (
	// RasterizerFitz renders in-process with MuPDF (go-fitz). Requires CGO.
	RasterizerFitz = "fitz"
	// RasterizerPdftoppm runs Poppler's pdftoppm.
	RasterizerPdftoppm = "pdftoppm"

	// RecognizerGosseract runs Tesseract in-process (gosseract). Requires CGO.
	RecognizerGosseract = "gosseract"
	// RecognizerTesseract runs the tesseract binary.
	RecognizerTesseract = "tesseract"
)

// NewRasterizer creates a rasterizer by name. Supported: "fitz" (default), "pdftoppm".
// binPath is the pdftoppm binary and is ignored for fitz.
func NewRasterizer(name, binPath string) (Rasterizer, error) {
	switch name {
	case RasterizerFitz, "":
		r, err := NewFitzRasterizer()
		if err != nil {
			return nil, err
		}
		return r, nil
	case RasterizerPdftoppm:
		r, err := NewPopplerRasterizer(binPath)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown rasterizer: %s (supported: fitz, pdftoppm)", name)
	}
}

// NewRecognizer creates a recognizer by name. Supported: "gosseract" (default), "tesseract".
// binPath is the tesseract binary and is ignored for gosseract.
func NewRecognizer(name, binPath string, languages []string) (Recognizer, error) {
	switch name {
	case RecognizerGosseract, "":
		r, err := NewGosseractRecognizer(languages...)
		if err != nil {
			return nil, err
		}
		return r, nil
	case RecognizerTesseract:
		r, err := NewTesseractCLI(binPath, languages...)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown recognizer: %s (supported: gosseract, tesseract)", name)
	}
}
