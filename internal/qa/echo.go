package qa

import (
	"context"
	"fmt"
	"strings"
)

// EchoGateway answers without calling a model. It reports the question and
// how much context it was given, which makes it useful for trying the server
// offline and in tests.
type EchoGateway struct{}

// NewEchoGateway returns an EchoGateway.
func NewEchoGateway() *EchoGateway { return &EchoGateway{} }

// Ask returns a deterministic answer derived from the prompts.
func (EchoGateway) Ask(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	question := userPrompt
	if i := strings.LastIndex(userPrompt, "\n\nQuestion: "); i >= 0 {
		question = userPrompt[i+len("\n\nQuestion: "):]
	}
	docs := strings.Count(userPrompt, "Document: ")
	return fmt.Sprintf("[%s] %d document block(s), %d characters of context. Question: %s",
		model, docs, len([]rune(userPrompt)), question), nil
}

func (EchoGateway) Close() error { return nil }
