package llmprovider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
)

// OpenAIProvider wraps the openai-go Responses API client, grounded on the
// teacher's internal/llm/openai.go client construction (apiKey/baseURL
// options) but replacing its stubbed chat-completion call with a real one.
type OpenAIProvider struct {
	BaseModel
	client openai.Client
}

func NewOpenAIProvider(name, apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIProvider{
		BaseModel: NewBaseModel(ModelGenerate, name),
		client:    openai.NewClient(clientOpts...),
	}
}

func (o *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	params := responses.ResponseNewParams{
		Model: o.Name(),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.UserPrompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.SystemInstruction != "" {
		params.Instructions = openai.String(req.SystemInstruction)
	}
	if len(req.Schema) > 0 {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   "triples",
					Schema: req.Schema,
				},
			},
		}
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("openai: responses.new failed: %w", err)
	}

	return CompletionResponse{
		Text:  resp.OutputText(),
		Model: string(resp.Model),
		Raw:   resp,
	}, nil
}
