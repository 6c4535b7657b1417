package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kgraph/extractor-core/internal/graph"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeYAML = `
name: demo
services:
  web:
    image: nginx:latest
    depends_on: [api, cache]
    ports:
      - "80:80"
      - "443:443"
  api:
    image: myapp/api:v1
    depends_on: [db]
    ports:
      - "8080:8080"
  db:
    image: postgres:15
    ports:
      - "5432:5432"
  cache:
    image: redis:7
    ports:
      - "6379:6379"
`

const composeYAMLBadPort = `
services:
  web:
    image: nginx:latest
    ports:
      - "99999:8080"
`

func TestReadComposeFile_HappyPathMatchesScenarioOne(t *testing.T) {
	data, err := ReadComposeFile("docker-compose.yaml", composeYAML, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	require.NotNil(t, data.ComposeProject)
	assert.Equal(t, "demo", data.ComposeProject.ProjectName)
	require.Len(t, data.ComposeServices, 4)
	require.Len(t, data.PortBindings, 5)
	require.Len(t, data.ServiceDependencies, 3)
}

func TestReadComposeFile_OutOfRangePortFails(t *testing.T) {
	_, err := ReadComposeFile("docker-compose.yaml", composeYAMLBadPort, time.Unix(0, 0).UTC())
	require.Error(t, err)
	var target *ec.Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, ec.ErrReaderInvalidPort.HttpStatusCode, target.HttpStatusCode)
}

func TestReadComposeFile_EmptyContentFails(t *testing.T) {
	_, err := ReadComposeFile("docker-compose.yaml", "", time.Unix(0, 0).UTC())
	require.Error(t, err)
}

// fakeSession records every Run call and always succeeds with one
// affected row per input row, mirroring the matcher pattern other
// internal/graph tests would use for a Session fake.
type fakeSession struct {
	runs []map[string]any
}

func (s *fakeSession) Run(_ context.Context, _ string, params map[string]any) (int, error) {
	s.runs = append(s.runs, params)
	rows, _ := params["rows"].([]map[string]any)
	return len(rows), nil
}

func (s *fakeSession) Close(context.Context) error { return nil }

func TestComposeUseCase_Execute_WritesEveryPopulatedFamily(t *testing.T) {
	session := &fakeSession{}
	writer := graph.NewComposeWriter(func(context.Context) (graph.Session, error) {
		return session, nil
	}, 0)

	data, err := ReadComposeFile("docker-compose.yaml", composeYAML, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	uc := NewComposeUseCase(writer)
	result, err := uc.Execute(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ComposeFiles)
	assert.Equal(t, 1, result.ComposeProjects)
	assert.Equal(t, 4, result.ComposeServices)
	assert.Equal(t, 5, result.PortBindings)
	assert.Equal(t, 3, result.ServiceDependencies)
	assert.GreaterOrEqual(t, result.TotalNodes(), 9) // services(4) + port bindings(5)
	assert.Equal(t, 3, result.TotalRelationships())
}
