// Package models defines core data structures for source documents, extraction results, and QA exchanges.
package models

import (
	"strings"
	"time"
)

// Format identifies a supported document format.
type Format string

const (
	FormatUnknown  Format = ""
	FormatText     Format = "txt"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatRTF      Format = "rtf"
	FormatDOCX     Format = "docx"
	FormatPPTX     Format = "pptx"
	FormatXLSX     Format = "xlsx"
	FormatEPUB     Format = "epub"
	FormatPDF      Format = "pdf"
	FormatGzip     Format = "gz"
)

// MethodFailed is the method label of a result that no extractor could produce.
const MethodFailed = "failed"

// SourceDocument is an uploaded file. Filename is its identity within a session.
type SourceDocument struct {
	Filename string `json:"filename"`
	Data     []byte `json:"-"`
	Format   Format `json:"format,omitempty"`
}

// ExtractionResult is the outcome of extracting text from one document.
// When Success is true, Text is non-blank and equals Sections joined by Separator.
type ExtractionResult struct {
	Text      string   `json:"text"`
	Sections  []string `json:"sections"`
	Separator string   `json:"separator"`
	Success   bool     `json:"success"`
	Method    string   `json:"method"`
	Failure   string   `json:"failure,omitempty"`
}

// NewExtractionResult joins sections with sep and marks the result successful
// when the joined text is not blank.
func NewExtractionResult(sections []string, sep, method string) ExtractionResult {
	text := strings.Join(sections, sep)
	res := ExtractionResult{
		Text:      text,
		Sections:  sections,
		Separator: sep,
		Method:    method,
		Success:   strings.TrimSpace(text) != "",
	}
	if !res.Success {
		res.Failure = "no text extracted"
	}
	return res
}

// FailedResult returns an unsuccessful result with the given method label and reason.
func FailedResult(method, reason string) ExtractionResult {
	return ExtractionResult{Method: method, Failure: reason}
}

// DocumentRecord is a successfully processed document held by the document store.
// Records are inserted once per filename and never modified.
type DocumentRecord struct {
	Filename     string           `json:"filename" db:"filename"`
	Result       ExtractionResult `json:"result" db:"-"`
	SectionCount int              `json:"section_count" db:"section_count"`
	CharCount    int              `json:"char_count" db:"char_count"`
	SizeBytes    int64            `json:"size_bytes" db:"size_bytes"`
	Digest       string           `json:"digest" db:"digest"`
	ProcessedAt  time.Time        `json:"processed_at" db:"processed_at"`
}

// DocumentSummary is the list view of a record without its text.
type DocumentSummary struct {
	Filename     string    `json:"filename"`
	Method       string    `json:"method"`
	SectionCount int       `json:"section_count"`
	CharCount    int       `json:"char_count"`
	SizeBytes    int64     `json:"size_bytes"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// Summary returns the list view of r.
func (r *DocumentRecord) Summary() DocumentSummary {
	return DocumentSummary{
		Filename:     r.Filename,
		Method:       r.Result.Method,
		SectionCount: r.SectionCount,
		CharCount:    r.CharCount,
		SizeBytes:    r.SizeBytes,
		ProcessedAt:  r.ProcessedAt,
	}
}
