package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/docqa/internal/models"
)

// MemoryStorage keeps records for the life of the process.
type MemoryStorage struct {
	mu        sync.RWMutex
	byName    map[string]*models.DocumentRecord
	order     []string
	exchanges []*models.QAExchange
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byName: make(map[string]*models.DocumentRecord)}
}

// PutDocument inserts rec unless its filename is already present.
func (s *MemoryStorage) PutDocument(ctx context.Context, rec *models.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[rec.Filename]; ok {
		return fmt.Errorf("%w: %s", ErrDocumentExists, rec.Filename)
	}
	s.byName[rec.Filename] = rec
	s.order = append(s.order, rec.Filename)
	return nil
}

// GetDocument returns the record for filename.
func (s *MemoryStorage) GetDocument(ctx context.Context, filename string) (*models.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byName[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return rec, nil
}

// ListDocuments returns all records in insertion order.
func (s *MemoryStorage) ListDocuments(ctx context.Context) ([]*models.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.DocumentRecord, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out, nil
}

// AppendExchange adds ex to the end of the history.
func (s *MemoryStorage) AppendExchange(ctx context.Context, ex *models.QAExchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex)
	return nil
}

// ListExchanges returns the history oldest first.
func (s *MemoryStorage) ListExchanges(ctx context.Context) ([]*models.QAExchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.QAExchange(nil), s.exchanges...), nil
}

func (s *MemoryStorage) CountDocuments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

func (s *MemoryStorage) CountExchanges(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.exchanges)), nil
}

// Close is a no-op for MemoryStorage.
func (s *MemoryStorage) Close() error { return nil }
