// Package session owns the processed-document store and QA history of one
// user session and serialises document processing.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hyperjump/docqa/internal/fileid"
	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/qa"
	"github.com/hyperjump/docqa/internal/storage"
	"go.uber.org/zap"
)

var (
	// ErrExtractionFailed is returned when no extractor produced text for a file.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrUnknownDocument is returned for a filename that was never submitted.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrNoDocuments is returned by Ask when nothing has been processed yet.
	ErrNoDocuments = errors.New("no processed documents")
	// ErrGatewayFailed is returned by Ask when the model call failed. The
	// returned exchange still carries the error text as its answer.
	ErrGatewayFailed = errors.New("question answering failed")
)

// Extractor turns one named file into text.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) models.ExtractionResult
}

// Session wires extraction, storage and question answering together.
// Submissions are processed one at a time; a filename is processed at most
// once successfully.
type Session struct {
	mu        sync.Mutex
	extractor Extractor
	store     storage.Storage
	gateway   qa.Gateway
	assembler *qa.Assembler
	model     string
	pending   map[string][]byte // failed submissions kept for Reprocess
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a logger for per-file outcomes and gateway failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAssembler replaces the default context assembler.
func WithAssembler(a *qa.Assembler) Option {
	return func(s *Session) { s.assembler = a }
}

// WithModel sets the model used when a question does not name one.
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// New returns a session over store. gateway may be nil, in which case Ask fails.
func New(extractor Extractor, store storage.Storage, gateway qa.Gateway, opts ...Option) *Session {
	s := &Session{
		extractor: extractor,
		store:     store,
		gateway:   gateway,
		assembler: qa.NewAssembler(0, 0),
		model:     qa.DefaultModel,
		pending:   make(map[string][]byte),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit processes one file. A filename that is already stored is skipped
// without re-extraction. On failure nothing is stored, the bytes are kept for
// Reprocess, and the error wraps ErrExtractionFailed.
func (s *Session) Submit(ctx context.Context, filename string, data []byte) (models.Outcome, error) {
	if filename == "" {
		return models.Outcome{Error: "filename is required"}, fmt.Errorf("filename is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.GetDocument(ctx, filename)
	if err == nil {
		s.logger.Debug("document already processed", zap.String("filename", filename))
		return models.Outcome{Filename: filename, Skipped: true, Record: rec}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Outcome{Filename: filename, Error: err.Error()}, err
	}
	return s.process(ctx, filename, data)
}

// SubmitBatch submits docs strictly in order. A failed file does not stop the
// batch. Cancellation is checked between files; files not reached are
// reported with the context error.
func (s *Session) SubmitBatch(ctx context.Context, docs []models.SourceDocument) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, models.Outcome{Filename: d.Filename, Error: err.Error()})
			continue
		}
		out, _ := s.Submit(ctx, d.Filename, d.Data)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Reprocess retries a file. A stored document is returned unchanged; a
// previously failed one is extracted again from its kept bytes.
func (s *Session) Reprocess(ctx context.Context, filename string) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, err := s.store.GetDocument(ctx, filename); err == nil {
		return models.Outcome{Filename: filename, Skipped: true, Record: rec}, nil
	}
	data, ok := s.pending[filename]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownDocument, filename)
		return models.Outcome{Filename: filename, Error: err.Error()}, err
	}
	return s.process(ctx, filename, data)
}

// process must be called with s.mu held.
func (s *Session) process(ctx context.Context, filename string, data []byte) (models.Outcome, error) {
	start := s.now()
	res := s.extractor.Extract(ctx, filename, data)
	if !res.Success {
		s.pending[filename] = data
		err := fmt.Errorf("%w: %s: %s", ErrExtractionFailed, filename, res.Failure)
		s.logger.Warn("extraction failed",
			zap.String("filename", filename), zap.String("reason", res.Failure))
		return models.Outcome{Filename: filename, Error: err.Error()}, err
	}

	rec := &models.DocumentRecord{
		Filename:     filename,
		Result:       res,
		SectionCount: len(res.Sections),
		CharCount:    utf8.RuneCountInString(res.Text),
		SizeBytes:    int64(len(data)),
		Digest:       fileid.Digest(data),
		ProcessedAt:  s.now(),
	}
	if err := s.store.PutDocument(ctx, rec); err != nil {
		return models.Outcome{Filename: filename, Error: err.Error()}, fmt.Errorf("store document: %w", err)
	}
	delete(s.pending, filename)
	s.logger.Info("document processed",
		zap.String("filename", filename),
		zap.String("method", res.Method),
		zap.Int("sections", rec.SectionCount),
		zap.Int("chars", rec.CharCount),
		zap.Duration("took", s.now().Sub(start)))
	return models.Outcome{Filename: filename, Record: rec}, nil
}

// Ask answers req from the selected documents, or from every processed
// document when none are selected. A successful exchange is appended to the
// history. When the model call fails the exchange's answer holds the error
// text, nothing is recorded, and the error wraps ErrGatewayFailed.
func (s *Session) Ask(ctx context.Context, req models.AskRequest) (models.QAExchange, error) {
	if err := req.Validate(); err != nil {
		return models.QAExchange{}, err
	}
	if s.gateway == nil {
		return models.QAExchange{}, fmt.Errorf("%w: no QA provider configured", ErrGatewayFailed)
	}
	docs, err := s.selectDocuments(ctx, req.Documents)
	if err != nil {
		return models.QAExchange{}, err
	}

	model := req.Model
	if model == "" {
		model = s.model
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Filename
	}
	prompt := qa.UserPrompt(s.assembler.Assemble(docs), req.Question)
	ex := models.QAExchange{
		ID:        uuid.New().String(),
		Question:  req.Question,
		Documents: names,
		Model:     model,
	}

	answer, err := s.gateway.Ask(ctx, model, qa.SystemPrompt, prompt)
	ex.Timestamp = s.now()
	if err != nil {
		s.logger.Warn("question answering failed", zap.String("model", model), zap.Error(err))
		ex.Answer = qa.ErrorAnswer(err)
		return ex, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}
	ex.Answer = answer
	if err := s.store.AppendExchange(ctx, &ex); err != nil {
		return ex, fmt.Errorf("record exchange: %w", err)
	}
	return ex, nil
}

func (s *Session) selectDocuments(ctx context.Context, names []string) ([]*models.DocumentRecord, error) {
	if len(names) == 0 {
		docs, err := s.store.ListDocuments(ctx)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, ErrNoDocuments
		}
		return docs, nil
	}
	docs := make([]*models.DocumentRecord, 0, len(names))
	for _, name := range names {
		rec, err := s.store.GetDocument(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, name)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, rec)
	}
	return docs, nil
}

// Documents returns processed documents in insertion order.
func (s *Session) Documents(ctx context.Context) ([]*models.DocumentRecord, error) {
	return s.store.ListDocuments(ctx)
}

// Document returns one processed document.
func (s *Session) Document(ctx context.Context, filename string) (*models.DocumentRecord, error) {
	rec, err := s.store.GetDocument(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, filename)
	}
	return rec, err
}

// History returns the QA exchanges oldest first.
func (s *Session) History(ctx context.Context) ([]*models.QAExchange, error) {
	return s.store.ListExchanges(ctx)
}

// Pending returns the sorted filenames whose extraction failed and which can be reprocessed.
func (s *Session) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.pending))
	for name := range s.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status summarises the session.
type Status struct {
	Documents int64    `json:"documents"`
	Exchanges int64    `json:"exchanges"`
	Pending   []string `json:"pending"`
	Model     string   `json:"model"`
}

// Status returns document and history counts.
func (s *Session) Status(ctx context.Context) (Status, error) {
	docs, err := s.store.CountDocuments(ctx)
	if err != nil {
		return Status{}, err
	}
	exchanges, err := s.store.CountExchanges(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Documents: docs, Exchanges: exchanges, Pending: s.Pending(), Model: s.model}, nil
}

// Close releases the gateway and the store.
func (s *Session) Close() error {
	var errs []error
	if s.gateway != nil {
		errs = append(errs, s.gateway.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}
