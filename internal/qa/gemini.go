package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGateway calls Google's Gemini models.
type GeminiGateway struct {
	client      *genai.Client
	temperature float32
	maxTokens   int32
}

// NewGeminiGateway opens a Gemini client with cfg.APIKey.
func NewGeminiGateway(ctx context.Context, cfg GatewayConfig) (*GeminiGateway, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiGateway{
		client:      cl,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Ask generates one answer. An empty model uses DefaultGeminiModel.
func (g *GeminiGateway) Ask(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	m := g.client.GenerativeModel(model)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}
	m.SetTemperature(g.temperature)
	m.SetMaxOutputTokens(g.maxTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned from gemini")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
