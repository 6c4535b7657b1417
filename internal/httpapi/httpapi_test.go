package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/auth"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/extract"
	"github.com/kgraph/extractor-core/internal/httpapi"
	"github.com/kgraph/extractor-core/internal/llmclient"
	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/patterns"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/kgraph/extractor-core/internal/window"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu   sync.Mutex
	keys map[string]schema.ApiKey
	jobs map[uuid.UUID]schema.ExtractionJob
}

func newFakeCache() *fakeCache {
	return &fakeCache{keys: make(map[string]schema.ApiKey), jobs: make(map[uuid.UUID]schema.ExtractionJob)}
}

func (f *fakeCache) GetAPIKey(_ context.Context, hash string) (*schema.ApiKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k, ok := f.keys[hash]
	if !ok {
		return nil, nil
	}
	return &k, nil
}
func (f *fakeCache) PutAPIKey(_ context.Context, hash string, key schema.ApiKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[hash] = key
	return nil
}
func (f *fakeCache) GetExtractionJob(_ context.Context, jobID uuid.UUID) (*schema.ExtractionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return &j, nil
}
func (f *fakeCache) PutExtractionJob(_ context.Context, job schema.ExtractionJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.JobID] = job
	return nil
}
func (f *fakeCache) GetExtractionResult(context.Context, string) (*schema.ExtractionResult, bool, error) {
	return nil, false, nil
}
func (f *fakeCache) PutExtractionResult(context.Context, string, schema.ExtractionResult) error {
	return nil
}
func (f *fakeCache) PushJob(context.Context, cache.JobEnvelope) error { return nil }
func (f *fakeCache) PopJob(context.Context, time.Duration) (*cache.JobEnvelope, bool, error) {
	return nil, false, nil
}
func (f *fakeCache) SendToDLQ(context.Context, cache.DLQEnvelope) error       { return nil }
func (f *fakeCache) IncrementRetryCount(context.Context, string) (int, error) { return 0, nil }
func (f *fakeCache) GetRetryCount(context.Context, string) (int, error)       { return 0, nil }
func (f *fakeCache) ShouldRetry(context.Context, string, int) (bool, error)   { return false, nil }
func (f *fakeCache) ClearRetryCount(context.Context, string) error            { return nil }

type fakeDocStore struct{}

func (fakeDocStore) QueryPending(context.Context, int) ([]schema.Document, error) { return nil, nil }
func (fakeDocStore) GetDocument(context.Context, uuid.UUID) (schema.Document, error) {
	return schema.Document{}, nil
}
func (fakeDocStore) GetContent(context.Context, uuid.UUID) (string, error) { return "", nil }
func (fakeDocStore) UpdateDocument(context.Context, schema.Document, string) error {
	return nil
}

func newTestServer(t *testing.T) (*httpapi.Server, *fakeCache, string) {
	t.Helper()
	c := newFakeCache()
	rawKey := "sk-active-key"
	require.NoError(t, c.PutAPIKey(context.Background(), auth.HashKey(rawKey), schema.ApiKey{
		KeyHash: auth.HashKey(rawKey), IsActive: true,
	}))

	providers := llmprovider.NewClient(zerolog.Nop())
	null := llmprovider.NewNullProvider("null")
	providers.AddProvider(null)
	require.NoError(t, providers.SetDefaultModel(llmprovider.ModelGenerate, null.Name()))
	llm := llmclient.NewClient(providers, c, zerolog.Nop(), 0)
	o := orchestrator.New(patterns.New(), window.New(0), llm, c, zerolog.Nop())
	uc := extract.NewPendingBatchUseCase(fakeDocStore{}, o, zerolog.Nop())

	authStore := auth.NewApiKeyStore(c)
	return httpapi.NewServer(authStore, uc, c, zerolog.Nop()), c, rawKey
}

func TestHandleExtractPending_MissingKeyIs401(t *testing.T) {
	server, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/extract/pending", nil)
	w := httptest.NewRecorder()

	server.NewRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ApiKey", w.Header().Get("WWW-Authenticate"))
}

func TestHandleExtractPending_ValidKeySucceeds(t *testing.T) {
	server, _, rawKey := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/extract/pending?limit=5", nil)
	req.Header.Set("X-API-Key", rawKey)
	w := httptest.NewRecorder()

	server.NewRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result extract.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Processed, "fakeDocStore has no pending documents")
}

func TestHandleExtractPending_InvalidLimitIs400(t *testing.T) {
	server, _, rawKey := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/extract/pending?limit=-1", nil)
	req.Header.Set("X-API-Key", rawKey)
	w := httptest.NewRecorder()

	server.NewRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleExtractStatus_ValidKeyReturnsOK(t *testing.T) {
	server, _, rawKey := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/extract/status", nil)
	req.Header.Set("X-API-Key", rawKey)
	w := httptest.NewRecorder()

	server.NewRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
