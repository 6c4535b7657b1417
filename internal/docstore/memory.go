package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/kgraph/extractor-core/pkgs/errors"
)

// MemoryStore is an in-process Store, used by the Ingest Use Case's
// tests and by callers that don't need Postgres-backed persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[uuid.UUID]schema.Document
	contents map[uuid.UUID]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[uuid.UUID]schema.Document),
		contents: make(map[uuid.UUID]string),
	}
}

func (s *MemoryStore) QueryPending(ctx context.Context, limit int) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]schema.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if d.ExtractionState == schema.StatePending {
			pending = append(pending, d)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].IngestedAt.Before(pending[j].IngestedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, docID uuid.UUID) (schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		return schema.Document{}, errors.ErrNotFound.Clone().
			WithMessage("document not found").
			WithDetails(docID.String())
	}
	return doc, nil
}

func (s *MemoryStore) GetContent(ctx context.Context, docID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.contents[docID]
	if !ok {
		return "", errors.ErrNotFound.Clone().
			WithMessage("document content not found").
			WithDetails(docID.String())
	}
	return content, nil
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, doc schema.Document, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.DocID] = doc
	s.contents[doc.DocID] = content
	return nil
}
