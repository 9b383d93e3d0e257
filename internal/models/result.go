package models

import "time"

// QAExchange is one completed question/answer turn. Exchanges form an append-only history.
type QAExchange struct {
	ID        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Documents []string  `json:"documents" db:"documents"`
	Answer    string    `json:"answer" db:"answer"`
	Model     string    `json:"model" db:"model"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Outcome reports what happened to one submitted file.
type Outcome struct {
	Filename string `json:"filename"`
	// Skipped is true when a document with the same filename was already processed.
	Skipped bool            `json:"skipped,omitempty"`
	Record  *DocumentRecord `json:"record,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OK reports whether the file is present in the store after submission.
func (o Outcome) OK() bool {
	return o.Error == "" && o.Record != nil
}
