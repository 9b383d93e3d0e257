package models

import (
	"errors"
	"strings"
)

// ErrEmptyQuestion is returned by Validate for a blank question.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// AskRequest is a question over a selection of processed documents.
type AskRequest struct {
	Question string `json:"question"`
	// Documents selects documents by filename. Empty means all processed documents.
	Documents []string `json:"documents,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// Validate trims the question and drops blank or repeated document names.
// Returns an error if the question is empty.
func (q *AskRequest) Validate() error {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	seen := make(map[string]bool, len(q.Documents))
	docs := q.Documents[:0]
	for _, d := range q.Documents {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		docs = append(docs, d)
	}
	q.Documents = docs
	return nil
}
