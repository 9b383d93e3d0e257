// Package config provides configuration loading and structs for the docqa server and CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
	QA         QAConfig         `yaml:"qa"`
	Watch      WatchConfig      `yaml:"watch"`
}

// WatchConfig holds inbox directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxUploadBytes limits the size of one multipart upload request.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig selects where processed documents and QA history live.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	DatabasePath string `yaml:"database_path"`
}

// ExtractionConfig holds PDF pipeline and OCR settings.
type ExtractionConfig struct {
	MinTextLength int           `yaml:"min_text_length"`
	RepairTimeout time.Duration `yaml:"repair_timeout"`
	QPDFPath      string        `yaml:"qpdf_path"`

	DisableOCR    bool          `yaml:"disable_ocr"`
	OCRDPI        int           `yaml:"ocr_dpi"`
	MaxOCRPages   int           `yaml:"max_ocr_pages"`
	PageTimeout   time.Duration `yaml:"page_timeout"`
	Rasterizer    string        `yaml:"rasterizer"`
	Recognizer    string        `yaml:"recognizer"`
	OCRLanguages  []string      `yaml:"ocr_languages"`
	PDFToPPMPath  string        `yaml:"pdftoppm_path"`
	TesseractPath string        `yaml:"tesseract_path"`
}

// QAConfig selects the chat model provider and the context limits.
type QAConfig struct {
	Provider         string  `yaml:"provider"`
	Model            string  `yaml:"model"`
	APIKey           string  `yaml:"api_key,omitempty"`
	BaseURL          string  `yaml:"base_url,omitempty"`
	Budget           int     `yaml:"budget"`
	PerDocumentLimit int     `yaml:"per_document_limit"`
	Temperature      float64 `yaml:"temperature"`
	MaxTokens        int     `yaml:"max_tokens"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// A .env file next to the config is loaded into the environment first.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := LoadEnv(filepath.Join(configDir, ".env")); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// LoadEnv loads variables from the given .env files without overriding ones
// already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Save writes the config to path. API keys are not written.
func Save(path string, cfg *Config) error {
	out := *cfg
	out.QA.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" and other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
