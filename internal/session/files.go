package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/docqa/internal/models"
	"go.uber.org/zap"
)

// SubmitFile reads the file at path and submits it under its base name. If
// allowedExts is non-empty, the file's extension must be in the list
// (case-insensitive).
func (s *Session) SubmitFile(ctx context.Context, path string, allowedExts []string) (models.Outcome, error) {
	name := filepath.Base(path)
	fail := func(err error) (models.Outcome, error) {
		return models.Outcome{Filename: name, Error: err.Error()}, err
	}
	if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
		return fail(fmt.Errorf("extension %q not in allowed list", filepath.Ext(path)))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("stat file: %w", err))
	}
	if !info.Mode().IsRegular() {
		return fail(fmt.Errorf("not a regular file: %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("read file: %w", err))
	}
	s.logger.Debug("submitting file", zap.String("path", path))
	return s.Submit(ctx, name, data)
}

// SubmitDirectory walks dir recursively and submits each regular file whose
// extension is in allowedExts (all files when empty), in lexical order.
// Failed files are reported in the outcomes and do not stop the walk.
func (s *Session) SubmitDirectory(ctx context.Context, dir string, allowedExts []string) ([]models.Outcome, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	var outcomes []models.Outcome
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are submitted
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		out, _ := s.SubmitFile(ctx, path, nil)
		outcomes = append(outcomes, out)
		return nil
	})
	return outcomes, err
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
