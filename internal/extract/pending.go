// Package extract implements the "process pending batch" use case named
// in §9's design notes as option (a): give the Orchestrator a
// process_document(doc_id, content) primary and express "pending batch"
// as a for-loop over store.QueryPending in the use case, rather than
// mutating the orchestrator's collaborators with a single-document
// adapter. This is what backs the external POST /extract/pending?limit=N
// endpoint (§6); the endpoint itself is an out-of-scope collaborator.
package extract

import (
	"context"
	"time"

	"github.com/kgraph/extractor-core/internal/docstore"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/rs/zerolog"
)

// Result is the {processed, succeeded, failed} tally §6's HTTP surface
// describes for one POST /extract/pending call.
type Result struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// PendingBatchUseCase drives every PENDING document through the
// Orchestrator and persists its terminal extraction_state back to the
// Document Store. It holds no state beyond its collaborators.
type PendingBatchUseCase struct {
	docs         docstore.Store
	orchestrator *orchestrator.Orchestrator
	logger       zerolog.Logger
}

func NewPendingBatchUseCase(docs docstore.Store, o *orchestrator.Orchestrator, logger zerolog.Logger) *PendingBatchUseCase {
	return &PendingBatchUseCase{docs: docs, orchestrator: o, logger: logger}
}

// Execute queries up to limit PENDING documents (limit <= 0 means
// unlimited) and runs each through process_document in turn, tallying
// terminal outcomes. A single document's failure never aborts the batch.
func (u *PendingBatchUseCase) Execute(ctx context.Context, limit int) (Result, error) {
	docs, err := u.docs.QueryPending(ctx, limit)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, doc := range docs {
		content, err := u.docs.GetContent(ctx, doc.DocID)
		if err != nil {
			u.logger.Error().Err(err).Str("doc_id", doc.DocID.String()).Msg("failed to fetch document content, skipping")
			result.Processed++
			result.Failed++
			continue
		}

		job, err := u.orchestrator.ProcessDocument(ctx, doc.DocID, content)
		result.Processed++
		if err != nil {
			result.Failed++
			u.logger.Error().Err(err).Str("doc_id", doc.DocID.String()).Msg("orchestrator returned an error")
			continue
		}

		doc.ExtractionState = job.State
		doc.LastUpdatedAt = time.Now().UTC()
		if err := u.docs.UpdateDocument(ctx, doc, content); err != nil {
			u.logger.Error().Err(err).Str("doc_id", doc.DocID.String()).Msg("failed to persist terminal document state")
		}

		if job.State == schema.StateCompleted {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	return result, nil
}
