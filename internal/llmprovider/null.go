package llmprovider

import "context"

// NullProvider always answers with an empty triple set, matching Tier C's
// silent-recovery contract. Useful for offline runs and tests where no real
// backend is configured.
type NullProvider struct {
	BaseModel
}

func NewNullProvider(name string) *NullProvider {
	return &NullProvider{BaseModel: NewBaseModel(ModelGenerate, name)}
}

func (n *NullProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return CompletionResponse{
		Text:  `{"triples": []}`,
		Model: n.Name(),
	}, nil
}
