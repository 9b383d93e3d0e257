// Package qa builds the question context from processed documents and sends
// it to a chat model.
package qa

import (
	"strings"

	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/pkg/utils"
)

const (
	// DefaultBudget is the maximum context length in characters.
	DefaultBudget = 20000
	// DefaultPerDocumentLimit caps each document's share when several are selected.
	DefaultPerDocumentLimit = 5000
	// TruncationMarker is appended whenever the context was cut.
	TruncationMarker = "\n\n[... content truncated ...]"

	blockSeparator = "\n\n---\n\n"
)

// Assembler turns selected documents into a single bounded context string.
// Lengths are counted in characters (runes), never bytes.
type Assembler struct {
	Budget           int
	PerDocumentLimit int
	Marker           string
}

// NewAssembler returns an Assembler with the given limits; values <= 0 use the defaults.
func NewAssembler(budget, perDocument int) *Assembler {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if perDocument <= 0 {
		perDocument = DefaultPerDocumentLimit
	}
	return &Assembler{Budget: budget, PerDocumentLimit: perDocument, Marker: TruncationMarker}
}

// Assemble returns the context for docs. A single document contributes its
// whole text; several are each cut to PerDocumentLimit and framed with a
// "Document: <name>" header. The result never exceeds Budget characters plus
// the marker. docs are not modified.
func (a *Assembler) Assemble(docs []*models.DocumentRecord) string {
	var combined string
	switch len(docs) {
	case 0:
		return ""
	case 1:
		combined = docs[0].Result.Text
	default:
		blocks := make([]string, 0, len(docs))
		for _, d := range docs {
			text, _ := utils.TruncateRunes(d.Result.Text, a.PerDocumentLimit)
			blocks = append(blocks, "Document: "+d.Filename+"\n\n"+text)
		}
		combined = strings.Join(blocks, blockSeparator)
	}
	if cut, truncated := utils.TruncateRunes(combined, a.Budget); truncated {
		return cut + a.Marker
	}
	return combined
}
