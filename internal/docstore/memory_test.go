package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDoc(state schema.ExtractionState, ingestedAt time.Time) schema.Document {
	return schema.Document{
		DocID:           uuid.New(),
		SourceURL:       "https://example.com/a",
		SourceType:      schema.SourceWeb,
		ContentHash:     "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		IngestedAt:      ingestedAt,
		ExtractionState: state,
		LastUpdatedAt:   ingestedAt,
	}
}

func TestMemoryStore_QueryPendingOrdersByIngestedAt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	older := newTestDoc(schema.StatePending, time.Now().Add(-time.Hour))
	newer := newTestDoc(schema.StatePending, time.Now())
	done := newTestDoc(schema.StateCompleted, time.Now().Add(-2*time.Hour))

	require.NoError(t, store.UpdateDocument(ctx, newer, "newer content"))
	require.NoError(t, store.UpdateDocument(ctx, older, "older content"))
	require.NoError(t, store.UpdateDocument(ctx, done, "done content"))

	pending, err := store.QueryPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, older.DocID, pending[0].DocID)
	assert.Equal(t, newer.DocID, pending[1].DocID)
}

func TestMemoryStore_QueryPendingRespectsLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		doc := newTestDoc(schema.StatePending, time.Now().Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.UpdateDocument(ctx, doc, "content"))
	}

	pending, err := store.QueryPending(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestMemoryStore_GetContentNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.GetContent(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestMemoryStore_UpdateDocumentUpserts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	doc := newTestDoc(schema.StatePending, time.Now())

	require.NoError(t, store.UpdateDocument(ctx, doc, "v1"))
	doc.ExtractionState = schema.StateTierADone
	require.NoError(t, store.UpdateDocument(ctx, doc, "v2"))

	content, err := store.GetContent(ctx, doc.DocID)
	require.NoError(t, err)
	assert.Equal(t, "v2", content)

	pending, err := store.QueryPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
