package qa

import (
	"context"
	"fmt"
	"os"
)

const (
	// SystemPrompt instructs the model to answer from the supplied documents.
	SystemPrompt = "You are a helpful assistant that answers questions based on the provided documents. Always cite which document(s) you're referencing."

	// DefaultModel is used when a request does not name one.
	DefaultModel       = "gpt-4.1-mini"
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// Provider names accepted by NewGateway.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderEcho   = "echo"
)

// Gateway sends one system/user prompt pair to a chat model and returns its answer.
// Implementations do not retry.
type Gateway interface {
	Ask(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	Close() error
}

// GatewayConfig selects and configures a Gateway.
type GatewayConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// UserPrompt frames the assembled context and the question for the model.
func UserPrompt(docs, question string) string {
	return "Documents:\n\n" + docs + "\n\nQuestion: " + question
}

// ErrorAnswer is the answer text shown when the gateway fails.
func ErrorAnswer(err error) string {
	return "Error: " + err.Error()
}

// NewGateway creates a gateway for cfg.Provider.
// Supported providers: "openai" (default), "gemini", "echo".
// An empty API key falls back to OPENAI_API_KEY or GEMINI_API_KEY.
func NewGateway(ctx context.Context, cfg GatewayConfig) (Gateway, error) {
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: no API key (set qa.api_key or OPENAI_API_KEY)")
		}
		return NewOpenAIGateway(cfg), nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: no API key (set qa.api_key or GEMINI_API_KEY)")
		}
		return NewGeminiGateway(ctx, cfg)
	case ProviderEcho:
		return NewEchoGateway(), nil
	default:
		return nil, fmt.Errorf("unknown QA provider: %s (supported: openai, gemini, echo)", cfg.Provider)
	}
}
