package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
)

// OllamaProvider wraps the official Ollama API client, grounded on the
// teacher's internal/llm/ollama.go generate-request construction.
type OllamaProvider struct {
	BaseModel
	client *ollama.Client
}

func NewOllamaProvider(name string, base *url.URL, httpClient *http.Client) *OllamaProvider {
	return &OllamaProvider{
		BaseModel: NewBaseModel(ModelGenerate, name),
		client:    ollama.NewClient(base, httpClient),
	}
}

func (o *OllamaProvider) Heartbeat(ctx context.Context) error {
	if err := o.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama: heartbeat failed: %w", err)
	}
	return nil
}

func (o *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	genReq := &ollama.GenerateRequest{
		Model:  o.Name(),
		System: req.SystemInstruction,
		Prompt: req.UserPrompt,
		Raw:    false,
		Stream: boolPtr(false),
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}
	if len(req.Schema) > 0 {
		genReq.Format = req.Schema
	}

	var resp CompletionResponse
	err := o.client.Generate(ctx, genReq, func(gr ollama.GenerateResponse) error {
		resp.Text += gr.Response
		resp.Model = gr.Model
		resp.Raw = gr
		return nil
	})
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("ollama: generate failed: %w", err)
	}
	return resp, nil
}

func boolPtr(b bool) *bool { return &b }
