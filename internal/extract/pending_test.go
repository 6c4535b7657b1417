package extract_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/extract"
	"github.com/kgraph/extractor-core/internal/llmclient"
	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/patterns"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/kgraph/extractor-core/internal/window"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is the same minimal in-memory cache.Cache used across the
// other internal packages' tests.
type fakeCache struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]schema.ExtractionJob
	results map[string]schema.ExtractionResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{jobs: make(map[uuid.UUID]schema.ExtractionJob), results: make(map[string]schema.ExtractionResult)}
}
func (f *fakeCache) GetAPIKey(context.Context, string) (*schema.ApiKey, error) { return nil, nil }
func (f *fakeCache) PutAPIKey(context.Context, string, schema.ApiKey) error    { return nil }
func (f *fakeCache) GetExtractionJob(_ context.Context, jobID uuid.UUID) (*schema.ExtractionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return &job, nil
}
func (f *fakeCache) PutExtractionJob(_ context.Context, job schema.ExtractionJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.JobID] = job
	return nil
}
func (f *fakeCache) GetExtractionResult(_ context.Context, key string) (*schema.ExtractionResult, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.results[key]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}
func (f *fakeCache) PutExtractionResult(_ context.Context, key string, result schema.ExtractionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[key] = result
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

// fakeDocStore is an in-memory docstore.Store with a fixed content map.
type fakeDocStore struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]schema.Document
	content map[uuid.UUID]string
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[uuid.UUID]schema.Document), content: make(map[uuid.UUID]string)}
}

func (s *fakeDocStore) add(content string) uuid.UUID {
	id := uuid.New()
	s.docs[id] = schema.Document{
		DocID:           id,
		SourceURL:       "https://example.com/doc",
		SourceType:      schema.SourceWeb,
		ContentHash:     "0000000000000000000000000000000000000000000000000000000000000",
		IngestedAt:      time.Now().UTC(),
		ExtractionState: schema.StatePending,
		LastUpdatedAt:   time.Now().UTC(),
	}
	s.content[id] = content
	return id
}

func (s *fakeDocStore) QueryPending(ctx context.Context, limit int) ([]schema.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schema.Document
	for _, d := range s.docs {
		if d.ExtractionState == schema.StatePending {
			out = append(out, d)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeDocStore) GetDocument(ctx context.Context, docID uuid.UUID) (schema.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[docID]
	if !ok {
		return schema.Document{}, ec.ErrNotFound.Clone()
	}
	return d, nil
}

func (s *fakeDocStore) GetContent(ctx context.Context, docID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[docID]
	if !ok {
		return "", ec.ErrNotFound.Clone()
	}
	return c, nil
}

func (s *fakeDocStore) UpdateDocument(ctx context.Context, doc schema.Document, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.DocID] = doc
	s.content[doc.DocID] = content
	return nil
}

func newOrchestratorForTest(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()
	c := newFakeCache()
	providers := llmprovider.NewClient(zerolog.Nop())
	null := llmprovider.NewNullProvider("null")
	providers.AddProvider(null)
	require.NoError(t, providers.SetDefaultModel(llmprovider.ModelGenerate, null.Name()))
	llm := llmclient.NewClient(providers, c, zerolog.Nop(), 0)
	m := patterns.New()
	m.AddPatterns("service", "Acme")
	sel := window.New(0)
	return orchestrator.New(m, sel, llm, c, zerolog.Nop())
}

func TestPendingBatchUseCase_ProcessesEveryPendingDocument(t *testing.T) {
	docs := newFakeDocStore()
	docs.add("Acme runs the widgets team.")
	docs.add("Another unrelated document.")

	uc := extract.NewPendingBatchUseCase(docs, newOrchestratorForTest(t), zerolog.Nop())

	result, err := uc.Execute(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)

	for id, d := range docs.docs {
		assert.Equal(t, schema.StateCompleted, d.ExtractionState, "doc %s should be marked completed", id)
	}
}

func TestPendingBatchUseCase_RespectsLimit(t *testing.T) {
	docs := newFakeDocStore()
	docs.add("one")
	docs.add("two")
	docs.add("three")

	uc := extract.NewPendingBatchUseCase(docs, newOrchestratorForTest(t), zerolog.Nop())

	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

func TestPendingBatchUseCase_EmptyQueueIsNoOp(t *testing.T) {
	docs := newFakeDocStore()
	uc := extract.NewPendingBatchUseCase(docs, newOrchestratorForTest(t), zerolog.Nop())

	result, err := uc.Execute(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, extract.Result{}, result)
}
