package config

import (
	"time"

	"github.com/hyperjump/docqa/internal/ocr"
	"github.com/hyperjump/docqa/internal/pdf"
	"github.com/hyperjump/docqa/internal/qa"
	"github.com/hyperjump/docqa/internal/storage"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 200 << 20
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = storage.DriverMemory
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/docqa/data/docqa.db"
	}

	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = pdf.DefaultMinTextLength
	}
	if cfg.Extraction.RepairTimeout == 0 {
		cfg.Extraction.RepairTimeout = 2 * time.Minute
	}
	if cfg.Extraction.QPDFPath == "" {
		cfg.Extraction.QPDFPath = "qpdf"
	}
	if cfg.Extraction.OCRDPI == 0 {
		cfg.Extraction.OCRDPI = ocr.DefaultDPI
	}
	if cfg.Extraction.PageTimeout == 0 {
		cfg.Extraction.PageTimeout = 2 * time.Minute
	}
	if cfg.Extraction.Rasterizer == "" {
		cfg.Extraction.Rasterizer = ocr.RasterizerFitz
	}
	if cfg.Extraction.Recognizer == "" {
		cfg.Extraction.Recognizer = ocr.RecognizerGosseract
	}
	if len(cfg.Extraction.OCRLanguages) == 0 {
		cfg.Extraction.OCRLanguages = []string{"eng"}
	}

	if cfg.QA.Provider == "" {
		cfg.QA.Provider = qa.ProviderOpenAI
	}
	if cfg.QA.Model == "" {
		cfg.QA.Model = qa.DefaultModel
		if cfg.QA.Provider == qa.ProviderGemini {
			cfg.QA.Model = qa.DefaultGeminiModel
		}
	}
	if cfg.QA.Budget == 0 {
		cfg.QA.Budget = qa.DefaultBudget
	}
	if cfg.QA.PerDocumentLimit == 0 {
		cfg.QA.PerDocumentLimit = qa.DefaultPerDocumentLimit
	}
	if cfg.QA.Temperature == 0 {
		cfg.QA.Temperature = qa.DefaultTemperature
	}
	if cfg.QA.MaxTokens == 0 {
		cfg.QA.MaxTokens = qa.DefaultMaxTokens
	}

	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".csv", ".html", ".htm", ".rtf", ".pdf",
			".docx", ".pptx", ".xlsx", ".epub", ".gz"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
