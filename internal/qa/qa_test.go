package qa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/hyperjump/docqa/internal/models"
)

func record(name, text string) *models.DocumentRecord {
	return &models.DocumentRecord{
		Filename: name,
		Result:   models.NewExtractionResult([]string{text}, "", "txt"),
	}
}

func TestAssemble_singleDocumentVerbatim(t *testing.T) {
	a := NewAssembler(0, 0)
	got := a.Assemble([]*models.DocumentRecord{record("a.txt", "short text")})
	if got != "short text" {
		t.Errorf("got %q", got)
	}
}

func TestAssemble_singleDocumentOverBudget(t *testing.T) {
	a := NewAssembler(0, 0)
	doc := record("big.txt", strings.Repeat("x", 25000))
	got := a.Assemble([]*models.DocumentRecord{doc})
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("missing marker")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, TruncationMarker)); n != DefaultBudget {
		t.Errorf("kept %d characters, want %d", n, DefaultBudget)
	}
	if len(doc.Result.Text) != 25000 {
		t.Error("record was modified")
	}
}

func TestAssemble_multipleDocumentsPerDocumentLimit(t *testing.T) {
	a := NewAssembler(0, 0)
	docs := []*models.DocumentRecord{
		record("a.txt", strings.Repeat("a", 8000)),
		record("b.txt", strings.Repeat("b", 8000)),
		record("c.txt", strings.Repeat("c", 8000)),
	}
	got := a.Assemble(docs)
	if strings.Contains(got, TruncationMarker) {
		t.Error("three 5000-character blocks fit the budget, no marker expected")
	}
	blocks := strings.Split(got, "\n\n---\n\n")
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	for i, name := range []string{"a.txt", "b.txt", "c.txt"} {
		header := "Document: " + name + "\n\n"
		if !strings.HasPrefix(blocks[i], header) {
			t.Errorf("block %d header: %q", i, blocks[i][:20])
			continue
		}
		if n := len(strings.TrimPrefix(blocks[i], header)); n != DefaultPerDocumentLimit {
			t.Errorf("block %d has %d characters, want %d", i, n, DefaultPerDocumentLimit)
		}
	}
}

func TestAssemble_multipleDocumentsOverBudget(t *testing.T) {
	a := NewAssembler(100, 60)
	docs := []*models.DocumentRecord{
		record("a.txt", strings.Repeat("a", 80)),
		record("b.txt", strings.Repeat("b", 80)),
	}
	got := a.Assemble(docs)
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatal("missing marker")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, TruncationMarker)); n != 100 {
		t.Errorf("kept %d characters, want 100", n)
	}
}

func TestAssemble_countsCharactersNotBytes(t *testing.T) {
	a := NewAssembler(10, 0)
	got := a.Assemble([]*models.DocumentRecord{record("ja.txt", strings.Repeat("語", 12))})
	if want := strings.Repeat("語", 10) + TruncationMarker; got != want {
		t.Errorf("got %q", got)
	}
}

func TestAssemble_empty(t *testing.T) {
	if got := NewAssembler(0, 0).Assemble(nil); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt("ctx", "Why?")
	if got != "Documents:\n\nctx\n\nQuestion: Why?" {
		t.Errorf("got %q", got)
	}
}

func TestErrorAnswer(t *testing.T) {
	if got := ErrorAnswer(errors.New("rate limited")); got != "Error: rate limited" {
		t.Errorf("got %q", got)
	}
}

func TestNewGateway(t *testing.T) {
	ctx := context.Background()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := NewGateway(ctx, GatewayConfig{Provider: "nope"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewGateway(ctx, GatewayConfig{}); err == nil {
		t.Error("expected error for missing OpenAI key")
	}
	if _, err := NewGateway(ctx, GatewayConfig{Provider: ProviderGemini}); err == nil {
		t.Error("expected error for missing Gemini key")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	g, err := NewGateway(ctx, GatewayConfig{})
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	if _, ok := g.(*OpenAIGateway); !ok {
		t.Errorf("default provider: got %T", g)
	}

	g, err = NewGateway(ctx, GatewayConfig{Provider: ProviderEcho})
	if err != nil {
		t.Fatalf("NewGateway(echo): %v", err)
	}
	defer g.Close()
	answer, err := g.Ask(ctx, "m", SystemPrompt, UserPrompt("Document: a\n\nx", "What?"))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(answer, "Question: What?") || !strings.Contains(answer, "1 document block") {
		t.Errorf("got %q", answer)
	}
}

func TestOpenAIGateway_Ask(t *testing.T) {
	var req struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4.1-mini",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"It is blue (colors.txt)."}}]}`)
	}))
	defer srv.Close()

	g := NewOpenAIGateway(GatewayConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens})
	answer, err := g.Ask(context.Background(), "", SystemPrompt, UserPrompt("ctx", "What color?"))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "It is blue (colors.txt)." {
		t.Errorf("answer = %q", answer)
	}
	if req.Model != DefaultModel || req.Temperature != 0.7 || req.MaxTokens != 1000 {
		t.Errorf("request model=%q temperature=%v max_tokens=%d", req.Model, req.Temperature, req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[0].Content != SystemPrompt ||
		req.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestOpenAIGateway_errorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream down","type":"server_error"}}`)
	}))
	defer srv.Close()

	g := NewOpenAIGateway(GatewayConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Temperature: 0.7, MaxTokens: 10})
	if _, err := g.Ask(context.Background(), "gpt-4.1-mini", SystemPrompt, "q"); err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}
