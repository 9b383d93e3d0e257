package qa

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGateway calls the OpenAI chat completions API.
type OpenAIGateway struct {
	client      openai.Client
	temperature float64
	maxTokens   int
}

// NewOpenAIGateway returns a gateway for cfg. Client retries are disabled.
func NewOpenAIGateway(cfg GatewayConfig) *OpenAIGateway {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIGateway{
		client:      openai.NewClient(opts...),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Ask sends one completion request.
func (g *OpenAIGateway) Ask(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if model == "" {
		model = DefaultModel
	}
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client holds no resources of its own.
func (g *OpenAIGateway) Close() error { return nil }
