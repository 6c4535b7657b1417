// Package llmprovider wires interchangeable text-completion backends behind a
// single registry, the way internal/llm/client.go and model.go did for the
// teacher's generate/embed model types. Only the generate model type survives
// here: embeddings and vector search are out of scope.
package llmprovider

import (
	"encoding/json"
	"fmt"
)

type ModelType string

const (
	ModelGenerate ModelType = "generate"
)

var ErrInvalidModelType = fmt.Errorf("invalid model type")

func (m ModelType) String() string { return string(m) }

func (m ModelType) Valid() bool { return m == ModelGenerate }

func (m ModelType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *ModelType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ModelType(s)
	if !m.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidModelType, s)
	}
	return nil
}

// Model is the identity any registered backend must expose.
type Model interface {
	Type() ModelType
	Name() string
}

// BaseModel is embedded by every concrete provider to satisfy Model.
type BaseModel struct {
	modelType ModelType
	name      string
}

func NewBaseModel(modelType ModelType, name string) BaseModel {
	return BaseModel{modelType: modelType, name: name}
}

func (m BaseModel) Type() ModelType { return m.modelType }
func (m BaseModel) Name() string    { return m.name }
