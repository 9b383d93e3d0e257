// Package cli provides output helpers for the docqa command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/session"
	"github.com/hyperjump/docqa/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// previewLen is how many characters of extracted text the text format shows per document.
const previewLen = 200

const rule = "─────────────────────────────────────────────────────────"

// WriteOutcomes writes per-file processing outcomes to w in the given format.
func WriteOutcomes(w io.Writer, outcomes []models.Outcome, format OutputFormat) error {
	if format == OutputJSON {
		if outcomes == nil {
			outcomes = []models.Outcome{}
		}
		return writeJSON(w, outcomes)
	}
	var ok, skipped, failed int
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			skipped++
		case o.OK():
			ok++
		default:
			failed++
		}
	}
	fmt.Fprintf(w, "\nProcessed %d file(s): %d extracted, %d already present, %d failed\n\n",
		len(outcomes), ok, skipped, failed)
	for _, o := range outcomes {
		writeOutcome(w, o)
	}
	return nil
}

func writeOutcome(w io.Writer, o models.Outcome) {
	fmt.Fprintln(w, rule)
	switch {
	case o.Error != "":
		fmt.Fprintf(w, "FAILED  %s\n", o.Filename)
		fmt.Fprintf(w, "Reason: %s\n", o.Error)
	case o.Skipped:
		fmt.Fprintf(w, "SKIPPED %s (already processed)\n", o.Filename)
	default:
		fmt.Fprintf(w, "OK      %s\n", o.Filename)
	}
	if o.Record != nil && o.Error == "" {
		r := o.Record
		fmt.Fprintf(w, "Method: %s | Sections: %d | Characters: %d\n", r.Result.Method, r.SectionCount, r.CharCount)
		if !o.Skipped {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(strings.TrimSpace(r.Result.Text), previewLen))
		}
	}
	fmt.Fprintln(w)
}

// WriteExtraction writes a single extraction result. The text format prints
// the full extracted text after a one-line header.
func WriteExtraction(w io.Writer, filename string, res models.ExtractionResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			Filename string `json:"filename"`
			models.ExtractionResult
		}{filename, res})
	}
	if !res.Success {
		fmt.Fprintf(w, "%s: extraction failed (%s): %s\n", filename, res.Method, res.Failure)
		return nil
	}
	fmt.Fprintf(w, "%s: %s, %d section(s)\n\n%s\n", filename, res.Method, len(res.Sections), res.Text)
	return nil
}

// WriteExchange writes one question and its answer.
func WriteExchange(w io.Writer, ex models.QAExchange, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, ex)
	}
	fmt.Fprintf(w, "\nQ: %s\n", ex.Question)
	if len(ex.Documents) > 0 {
		fmt.Fprintf(w, "Documents: %s\n", strings.Join(ex.Documents, ", "))
	}
	if ex.Model != "" {
		fmt.Fprintf(w, "Model: %s\n", ex.Model)
	}
	fmt.Fprintf(w, "\n%s\n", ex.Answer)
	return nil
}

// WriteStatus writes session counts and the pending list.
func WriteStatus(w io.Writer, st session.Status, format OutputFormat) error {
	if format == OutputJSON {
		if st.Pending == nil {
			st.Pending = []string{}
		}
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Documents: %d\n", st.Documents)
	fmt.Fprintf(w, "Exchanges: %d\n", st.Exchanges)
	if st.Model != "" {
		fmt.Fprintf(w, "Model:     %s\n", st.Model)
	}
	if len(st.Pending) > 0 {
		fmt.Fprintf(w, "Pending:   %s\n", strings.Join(st.Pending, ", "))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
