package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// recorder collects submitted paths.
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) submit(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *recorder) has(suffix string) bool {
	for _, p := range r.snapshot() {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	var rec recorder
	w := New(Options{Directories: []string{dir}, Extensions: []string{".txt"}, Recursive: true}, rec.submit)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	fPath := filepath.Join(dir, "f.txt")
	for i := 0; i < 3; i++ {
		if err := writeFile(fPath, strings.Repeat("hello ", i+1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writeFile(filepath.Join(dir, "skip.bin"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(800 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || !strings.HasSuffix(got[0], "f.txt") {
		t.Errorf("expected one debounced submission of f.txt, got %v", got)
	}
}

func TestWatcher_ignoresHiddenAndLockFiles(t *testing.T) {
	dir := t.TempDir()
	var rec recorder
	w := New(Options{Directories: []string{dir}, Recursive: true, Debounce: 50 * time.Millisecond}, rec.submit)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	_ = writeFile(filepath.Join(dir, ".partial.txt"), "x")
	_ = writeFile(filepath.Join(dir, "~$report.docx"), "x")
	_ = writeFile(filepath.Join(dir, "report.docx"), "x")
	time.Sleep(400 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 1 || !strings.HasSuffix(got[0], "report.docx") || strings.Contains(got[0], "~$") {
		t.Errorf("got %v", got)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.pdf", []string{"pdf"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestIgnoredName(t *testing.T) {
	for name, want := range map[string]bool{
		".DS_Store":   true,
		"~$memo.docx": true,
		"memo.docx":   false,
		"a~b.txt":     false,
	} {
		if got := ignoredName(name); got != want {
			t.Errorf("ignoredName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "a.txt"), "hello"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "ignore.xyz"), "x"); err != nil {
		t.Fatal(err)
	}
	if err := mkdirAll(filepath.Join(dir, "nested")); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "nested", "b.txt"), "x"); err != nil {
		t.Fatal(err)
	}

	var rec recorder
	w := New(Options{Directories: []string{dir}, Extensions: []string{".txt"}, Recursive: false}, rec.submit)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	w.SyncExistingFiles()

	got := rec.snapshot()
	if len(got) != 1 || !strings.HasSuffix(got[0], "a.txt") {
		t.Errorf("expected only a.txt without recursion, got %v", got)
	}
}

func TestWatcher_Start_createsMissingRootDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "inbox", "new")
	w := New(Options{Directories: []string{root}, Recursive: true}, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
	if dirs := w.Directories(); len(dirs) != 1 || dirs[0] != root {
		t.Errorf("Directories() = %v", dirs)
	}
}

func TestWatcher_NewDirectory_submitsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	var rec recorder
	w := New(Options{Directories: []string{dir}, Extensions: []string{".txt", ".md"}, Recursive: true}, rec.submit)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "level1", "level2")
	if err := mkdirAll(nested); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "deep.txt"), "deep content"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "level1", "notes.md"), "notes"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(800 * time.Millisecond)

	if !rec.has("deep.txt") || !rec.has("notes.md") {
		t.Errorf("expected deep.txt and notes.md, got %v", rec.snapshot())
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(Options{Directories: []string{t.TempDir()}}, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
