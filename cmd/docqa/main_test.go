package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/docqa/internal/cli"
	"github.com/hyperjump/docqa/internal/config"
	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/qa"
	"github.com/hyperjump/docqa/internal/server"
	"github.com/hyperjump/docqa/internal/storage"
	"go.uber.org/zap"
)

const noteText = "The lease runs for twenty four months and either party may end it with ninety days notice."

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after question are moved first",
			args:     []string{"when does the lease end", "-output", "json"},
			expected: []string{"-output", "json", "when does the lease end"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "when does the lease end"},
			expected: []string{"-output", "json", "when does the lease end"},
		},
		{
			name:     "question only returns unchanged",
			args:     []string{"when does the lease end"},
			expected: []string{"when does the lease end"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"a.pdf", "b.pdf", "-debug"},
			expected: []string{"-debug", "a.pdf", "b.pdf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"summary"}, "summary"},
		{"multiple words", []string{"who", "signed"}, "who signed"},
		{"quoted phrase", []string{"who signed"}, "who signed"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuestion(tt.args)
			if got != tt.expected {
				t.Errorf("buildQuestion(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a.pdf, ,b.txt ,"); !reflect.DeepEqual(got, []string{"a.pdf", "b.txt"}) {
		t.Errorf("splitList = %v", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]cli.OutputFormat{"": cli.OutputText, "text": cli.OutputText, "json": cli.OutputJSON} {
		got, err := parseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("parseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := parseOutputFormat("compact"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
qa:
  provider: echo
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug || cfg.QA.Provider != qa.ProviderEcho {
		t.Errorf("cwd config.yaml not applied: %+v", cfg)
	}
}

func TestLoadConfig_defaultsWhenNoConfigFile(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("a system config exists")
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty", resolved)
	}
	if cfg.Server.Port != 8080 || cfg.Storage.Driver != storage.DriverMemory {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}

	if _, _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func echoConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		QA:         config.QAConfig{Provider: qa.ProviderEcho},
		Extraction: config.ExtractionConfig{DisableOCR: true},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestInitializeComponents_addAndAsk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lease.txt"), []byte(noteText), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.bin"), []byte{0, 1, 2}, 0600); err != nil {
		t.Fatal(err)
	}
	cfg := echoConfig(t)
	cfg.Storage.Driver = storage.DriverSQLite
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "docqa.db")

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	outcomes := addPaths(ctx, components.Session, []string{dir, filepath.Join(dir, "missing.txt")}, cfg.Watch.Extensions)
	if len(outcomes) != 2 || !outcomes[0].OK() || outcomes[1].Error == "" {
		t.Fatalf("outcomes: %+v", outcomes)
	}

	ex, err := components.Session.Ask(ctx, models.AskRequest{Question: "notice period?"})
	if err != nil {
		t.Fatal(err)
	}
	if ex.Model != cfg.QA.Model || !strings.Contains(ex.Answer, "notice period?") {
		t.Errorf("exchange: %+v", ex)
	}
	components.Close()

	// The SQLite store survives a restart.
	components, err = initializeComponents(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()
	st, err := components.Session.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Documents != 1 || st.Exchanges != 1 {
		t.Errorf("status after reopen: %+v", st)
	}
}

func TestInitializeComponents_missingAPIKeyStillProcesses(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := echoConfig(t)
	cfg.QA.Provider = qa.ProviderOpenAI
	components, err := initializeComponents(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()

	ctx := context.Background()
	if out, err := components.Session.Submit(ctx, "lease.txt", []byte(noteText)); err != nil || !out.OK() {
		t.Fatalf("submit: %+v %v", out, err)
	}
	if _, err := components.Session.Ask(ctx, models.AskRequest{Question: "hi"}); err == nil {
		t.Error("expected ask to fail without a provider")
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.pdf", ".hidden.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	files, err := collectFiles([]string{dir}, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.txt" {
		t.Errorf("collectFiles = %v", files)
	}
	if _, err := collectFiles([]string{filepath.Join(dir, "nope")}, nil); err == nil {
		t.Error("expected error for a missing path")
	}
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	components, err := initializeComponents(context.Background(), echoConfig(t), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(components.Close)
	ts := httptest.NewServer(server.NewServer(components.Session, echoConfig(t), nil, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTPClient_uploadAskStatus(t *testing.T) {
	ts := newAPIServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lease.txt")
	if err := os.WriteFile(path, []byte(noteText), 0600); err != nil {
		t.Fatal(err)
	}

	outcomes, err := uploadViaHTTP(ts.URL, []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 1 || !outcomes[0].OK() {
		t.Fatalf("outcomes: %+v", outcomes)
	}

	ex, err := askViaHTTP(ts.URL, models.AskRequest{Question: "how long is the lease?", Documents: []string{"lease.txt"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Documents) != 1 || ex.Documents[0] != "lease.txt" {
		t.Errorf("exchange: %+v", ex)
	}

	if _, err := askViaHTTP(ts.URL, models.AskRequest{Question: "x", Documents: []string{"other.txt"}}); err == nil ||
		!strings.Contains(err.Error(), "404") {
		t.Errorf("expected 404 error, got %v", err)
	}

	st, err := statusViaHTTP(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if st.Documents != 1 || st.Exchanges != 1 {
		t.Errorf("status: %+v", st)
	}
	var buf strings.Builder
	writeRemoteStatus(&buf, st, cli.OutputText)
	if !strings.Contains(buf.String(), "Documents: 1") {
		t.Errorf("remote status text: %s", buf.String())
	}
}
