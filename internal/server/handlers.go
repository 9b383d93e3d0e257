package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/session"
	"github.com/hyperjump/docqa/internal/storage"
	"go.uber.org/zap"
)

// multipartMemory is how much of an upload is held in memory before spilling to disk.
const multipartMemory = 32 << 20

type uploadResponse struct {
	Outcomes  []models.Outcome `json:"outcomes"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
}

func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	if limit := s.config.Server.MaxUploadBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, `no files in form field "file"`)
		return
	}
	docs := make([]models.SourceDocument, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "open upload: "+err.Error())
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "read upload: "+err.Error())
			return
		}
		docs = append(docs, models.SourceDocument{Filename: fh.Filename, Data: data})
	}
	s.logger.Debug("upload request", zap.Int("files", len(docs)))

	resp := uploadResponse{Outcomes: s.session.SubmitBatch(r.Context(), docs)}
	for _, o := range resp.Outcomes {
		if o.OK() {
			resp.Processed++
		} else {
			resp.Failed++
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.session.Documents(r.Context())
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries := make([]models.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, d.Summary())
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": summaries})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	name := documentName(r)
	rec, err := s.session.Document(r.Context(), name)
	if errors.Is(err, session.ErrUnknownDocument) {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReprocessDocument(w http.ResponseWriter, r *http.Request) {
	name := documentName(r)
	s.logger.Debug("reprocess request", zap.String("filename", name))
	out, err := s.session.Reprocess(r.Context(), name)
	switch {
	case errors.Is(err, session.ErrUnknownDocument):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrExtractionFailed):
		s.respondJSON(w, http.StatusUnprocessableEntity, out)
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, http.StatusOK, out)
	}
}

type askErrorResponse struct {
	Error    string            `json:"error"`
	Exchange models.QAExchange `json:"exchange"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ask request", zap.Strings("documents", req.Documents))
	ex, err := s.session.Ask(r.Context(), req)
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, ex)
	case errors.Is(err, session.ErrGatewayFailed):
		s.respondJSON(w, http.StatusBadGateway, askErrorResponse{Error: err.Error(), Exchange: ex})
	case errors.Is(err, session.ErrUnknownDocument):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoDocuments), errors.Is(err, models.ErrEmptyQuestion):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("ask failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := s.session.History(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hist == nil {
		hist = []*models.QAExchange{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"exchanges": hist})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.session.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents": st.Documents,
		"exchanges": st.Exchanges,
		"pending":   st.Pending,
	}
	configInfo := map[string]interface{}{
		"model":          st.Model,
		"provider":       s.config.QA.Provider,
		"storage_driver": s.config.Storage.Driver,
		"min_text_len":   s.config.Extraction.MinTextLength,
		"ocr_enabled":    !s.config.Extraction.DisableOCR,
	}
	if s.config.Storage.Driver == storage.DriverSQLite {
		configInfo["database_path"] = s.config.Storage.DatabasePath
		if size, err := storage.DatabaseSize(s.config.Storage.DatabasePath); err == nil {
			resp["disk_usage_bytes"] = size
		}
	}
	if s.watch != nil {
		configInfo["watch_directories"] = s.watch.Directories()
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

// documentName returns the unescaped {name} path parameter.
func documentName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
