package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  driver: sqlite
  database_path: "test.db"
extraction:
  min_text_length: 20
  page_timeout: 30s
  rasterizer: pdftoppm
  ocr_languages: [eng, deu]
qa:
  provider: gemini
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DatabasePath == "" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Extraction.MinTextLength != 20 || cfg.Extraction.PageTimeout != 30*time.Second {
		t.Errorf("unexpected extraction config: %+v", cfg.Extraction)
	}
	if cfg.Extraction.Rasterizer != "pdftoppm" || len(cfg.Extraction.OCRLanguages) != 2 {
		t.Errorf("unexpected OCR config: %+v", cfg.Extraction)
	}
	if cfg.QA.Model != "gemini-1.5-flash" {
		t.Errorf("gemini default model: got %s", cfg.QA.Model)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/docqa.db"
watch:
  directories: ["./inbox"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "docqa.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	if len(cfg.Watch.Directories) != 1 {
		t.Fatalf("watch directories: got %d", len(cfg.Watch.Directories))
	}
	if want := filepath.Join(dir, "inbox"); cfg.Watch.Directories[0] != want {
		t.Errorf("watch directory = %s, want %s", cfg.Watch.Directories[0], want)
	}
}

func TestLoad_dotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCQA_TEST_KEY", "")
	os.Unsetenv("DOCQA_TEST_KEY")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCQA_TEST_KEY=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: false\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("DOCQA_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("DOCQA_TEST_KEY = %q", got)
	}
}

func TestLoadEnv_doesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DOCQA_TEST_KEEP=file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCQA_TEST_KEEP", "process")
	if err := LoadEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("DOCQA_TEST_KEEP"); got != "process" {
		t.Errorf("DOCQA_TEST_KEEP = %q, want process", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("default driver: got %s", cfg.Storage.Driver)
	}
	if cfg.Extraction.MinTextLength != 50 || cfg.Extraction.OCRDPI != 200 {
		t.Errorf("extraction defaults: %+v", cfg.Extraction)
	}
	if cfg.Extraction.Rasterizer != "fitz" || cfg.Extraction.Recognizer != "gosseract" {
		t.Errorf("OCR backends: %s / %s", cfg.Extraction.Rasterizer, cfg.Extraction.Recognizer)
	}
	if cfg.QA.Provider != "openai" || cfg.QA.Model != "gpt-4.1-mini" {
		t.Errorf("qa provider/model: %s / %s", cfg.QA.Provider, cfg.QA.Model)
	}
	if cfg.QA.Budget != 20000 || cfg.QA.PerDocumentLimit != 5000 {
		t.Errorf("qa limits: %d / %d", cfg.QA.Budget, cfg.QA.PerDocumentLimit)
	}
	if cfg.QA.Temperature != 0.7 || cfg.QA.MaxTokens != 1000 {
		t.Errorf("qa sampling: %v / %d", cfg.QA.Temperature, cfg.QA.MaxTokens)
	}
	if len(cfg.Watch.Extensions) == 0 || cfg.Watch.Extensions[0] != ".txt" {
		t.Errorf("watch extensions: got %v", cfg.Watch.Extensions)
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Directories: []string{"/tmp/docs"}}}
	ApplyDefaults(cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		w := &WatchConfig{}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		w := &WatchConfig{Recursive: &f}
		if got := w.RecursiveOrDefault(); got {
			t.Errorf("RecursiveOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Storage: StorageConfig{Driver: "sqlite", DatabasePath: "/tmp/db"},
		QA:      QAConfig{APIKey: "sk-secret"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.QA.APIKey != "" {
		t.Error("API key should not be saved")
	}
	if cfg.QA.APIKey != "sk-secret" {
		t.Error("Save modified the caller's config")
	}
}
