package llmprovider

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider wraps the google.golang.org/genai client, grounded on the
// teacher's internal/llm/gemini.go client-construction idiom.
type GeminiProvider struct {
	BaseModel
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, name, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: client init failed: %w", err)
	}
	return &GeminiProvider{
		BaseModel: NewBaseModel(ModelGenerate, name),
		client:    client,
	}, nil
}

func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if len(req.Schema) > 0 {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Name(), genai.Text(req.UserPrompt), cfg)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("gemini: generate_content failed: %w", err)
	}

	return CompletionResponse{
		Text:  resp.Text(),
		Model: g.Name(),
		Raw:   resp,
	}, nil
}
