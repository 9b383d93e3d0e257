// Package storage defines the persistence interface for processed documents and QA history.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/docqa/internal/models"
)

var (
	// ErrDocumentExists is returned by PutDocument when the filename is already stored.
	ErrDocumentExists = errors.New("document already exists")
	// ErrNotFound is returned when no document has the requested filename.
	ErrNotFound = errors.New("document not found")
)

// Storage holds processed document records keyed by filename and the
// append-only QA history. Records are inserted once and never updated.
type Storage interface {
	// Document operations
	PutDocument(ctx context.Context, rec *models.DocumentRecord) error
	GetDocument(ctx context.Context, filename string) (*models.DocumentRecord, error)
	// ListDocuments returns records in insertion order.
	ListDocuments(ctx context.Context) ([]*models.DocumentRecord, error)

	// QA history
	AppendExchange(ctx context.Context, ex *models.QAExchange) error
	ListExchanges(ctx context.Context) ([]*models.QAExchange, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountExchanges(ctx context.Context) (int64, error)

	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)
