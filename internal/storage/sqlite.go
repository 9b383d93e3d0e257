package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/docqa/internal/models"
)

// SQLiteStorage implements Storage using SQLite, so processed documents and
// history survive restarts.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		result TEXT NOT NULL,
		method TEXT NOT NULL,
		section_count INTEGER NOT NULL,
		char_count INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL,
		digest TEXT,
		processed_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS qa_exchanges (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		question TEXT NOT NULL,
		documents TEXT NOT NULL,
		answer TEXT NOT NULL,
		model TEXT,
		created_at TIMESTAMP NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// PutDocument inserts rec. An existing row with the same filename is left
// untouched and ErrDocumentExists is returned.
func (s *SQLiteStorage) PutDocument(ctx context.Context, rec *models.DocumentRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents
		 (filename, result, method, section_count, char_count, size_bytes, digest, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Filename, string(resultJSON), rec.Result.Method, rec.SectionCount, rec.CharCount,
		rec.SizeBytes, rec.Digest, rec.ProcessedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentExists, rec.Filename)
	}
	return nil
}

const documentColumns = `filename, result, section_count, char_count, size_bytes, digest, processed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.DocumentRecord, error) {
	var rec models.DocumentRecord
	var resultJSON string
	var digest sql.NullString
	if err := row.Scan(&rec.Filename, &resultJSON, &rec.SectionCount, &rec.CharCount,
		&rec.SizeBytes, &digest, &rec.ProcessedAt); err != nil {
		return nil, err
	}
	rec.Digest = digest.String
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &rec, nil
}

// GetDocument returns the record for filename.
func (s *SQLiteStorage) GetDocument(ctx context.Context, filename string) (*models.DocumentRecord, error) {
	rec, err := scanDocument(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE filename = ?`, filename))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListDocuments returns all records in insertion order.
func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*models.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.DocumentRecord
	for rows.Next() {
		rec, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, rec)
	}
	return docs, rows.Err()
}

// AppendExchange adds ex to the end of the history.
func (s *SQLiteStorage) AppendExchange(ctx context.Context, ex *models.QAExchange) error {
	docsJSON, err := json.Marshal(ex.Documents)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO qa_exchanges (id, question, documents, answer, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Question, string(docsJSON), ex.Answer, ex.Model, ex.Timestamp,
	)
	return err
}

// ListExchanges returns the history oldest first.
func (s *SQLiteStorage) ListExchanges(ctx context.Context) ([]*models.QAExchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, documents, answer, model, created_at FROM qa_exchanges ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.QAExchange
	for rows.Next() {
		var ex models.QAExchange
		var docsJSON string
		var model sql.NullString
		if err := rows.Scan(&ex.ID, &ex.Question, &docsJSON, &ex.Answer, &model, &ex.Timestamp); err != nil {
			return nil, err
		}
		ex.Model = model.String
		if err := json.Unmarshal([]byte(docsJSON), &ex.Documents); err != nil {
			return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
		}
		out = append(out, &ex)
	}
	return out, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountExchanges returns the number of recorded exchanges.
func (s *SQLiteStorage) CountExchanges(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM qa_exchanges`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
