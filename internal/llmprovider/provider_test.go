package llmprovider_test

import (
	"context"
	"testing"

	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullProviderComplete(t *testing.T) {
	p := llmprovider.NewNullProvider("null-1")

	resp, err := p.Complete(context.Background(), llmprovider.CompletionRequest{
		UserPrompt:  "anything",
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"triples": []}`, resp.Text)
	assert.Equal(t, "null-1", resp.Model)
	assert.Equal(t, llmprovider.ModelGenerate, p.Type())
}

func TestBaseClientRegistry(t *testing.T) {
	cli := llmprovider.NewClient(zerolog.Nop())

	p1 := llmprovider.NewNullProvider("null-1")
	p2 := llmprovider.NewNullProvider("null-2")

	cli.AddProvider(p1)
	cli.AddProvider(p2)

	assert.True(t, cli.HasProvider("null-1"))
	assert.True(t, cli.HasProvider("null-2"))
	assert.False(t, cli.HasProvider("missing"))

	names := make([]string, 0, 2)
	for _, p := range cli.ListProviders() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"null-1", "null-2"}, names)

	require.NoError(t, cli.SetDefaultModel(llmprovider.ModelGenerate, "null-1"))
	def, ok := cli.DefaultProvider(llmprovider.ModelGenerate)
	require.True(t, ok)
	assert.Equal(t, "null-1", def.Name())

	err := cli.SetDefaultModel(llmprovider.ModelGenerate, "nonexistent")
	assert.ErrorIs(t, err, llmprovider.ErrModelNotFound)
}

func TestModelTypeJSON(t *testing.T) {
	var m llmprovider.ModelType
	err := m.UnmarshalJSON([]byte(`"generate"`))
	require.NoError(t, err)
	assert.Equal(t, llmprovider.ModelGenerate, m)

	var bad llmprovider.ModelType
	err = bad.UnmarshalJSON([]byte(`"embed"`))
	assert.ErrorIs(t, err, llmprovider.ErrInvalidModelType)
}
