package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kgraph/extractor-core/internal/schema"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/kgraph/extractor-core/pkgs/utils"
)

// PostgresStore is the pgx-backed Store adapter, grounded on
// internal/storage.Storage's db/handlePgxErr shape. It talks to the
// "documents" table directly rather than through a sqlc Querier, since
// no code generator runs in this module.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func handlePgxErr(err error) *ec.Error {
	if err == nil {
		return nil
	}

	if pgerr, ok := ec.NewPGErr(err); ok {
		e := ec.ErrDBError.Clone()
		if pgerrcode.IsIntegrityConstraintViolation(pgerr.Code) {
			e = ec.ErrDBIntegrityConstrainViolation.Clone()
		}
		return e.WithMessage(pgerr.Message).WithDetails(pgerr.Details).Warp(err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ec.ErrNotFound.Clone().Warp(err)
	}

	return ec.ErrDBError.Clone().WithDetails(err.Error()).Warp(err)
}

const queryPendingSQL = `
SELECT doc_id, source_url, source_type, content_hash, ingested_at,
       extraction_state, last_updated_at
FROM documents
WHERE extraction_state = $1
ORDER BY ingested_at ASC
LIMIT $2
`

// QueryPending returns PENDING documents. A non-positive limit is sent
// as NULL, i.e. unbounded, matching Postgres' "LIMIT NULL" semantics.
func (s *PostgresStore) QueryPending(ctx context.Context, limit int) ([]schema.Document, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := s.pool.Query(ctx, queryPendingSQL, schema.StatePending, limitArg)
	if err != nil {
		return nil, handlePgxErr(err)
	}
	defer rows.Close()

	var docs []schema.Document
	for rows.Next() {
		var d schema.Document
		if err := rows.Scan(&d.DocID, &d.SourceURL, &d.SourceType, &d.ContentHash,
			&d.IngestedAt, &d.ExtractionState, &d.LastUpdatedAt); err != nil {
			return nil, handlePgxErr(err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePgxErr(err)
	}
	return docs, nil
}

const getDocumentSQL = `
SELECT doc_id, source_url, source_type, content_hash, ingested_at,
       extraction_state, last_updated_at
FROM documents WHERE doc_id = $1
`

func (s *PostgresStore) GetDocument(ctx context.Context, docID uuid.UUID) (schema.Document, error) {
	var d schema.Document
	err := s.pool.QueryRow(ctx, getDocumentSQL, docID).Scan(&d.DocID, &d.SourceURL, &d.SourceType,
		&d.ContentHash, &d.IngestedAt, &d.ExtractionState, &d.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.Document{}, ec.ErrNotFound.Clone().
				WithMessage("document not found").
				WithDetails(docID.String())
		}
		return schema.Document{}, handlePgxErr(err)
	}
	return d, nil
}

const getContentSQL = `SELECT content FROM documents WHERE doc_id = $1`

func (s *PostgresStore) GetContent(ctx context.Context, docID uuid.UUID) (string, error) {
	var content string
	err := s.pool.QueryRow(ctx, getContentSQL, docID).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ec.ErrNotFound.Clone().
				WithMessage("document content not found").
				WithDetails(docID.String())
		}
		return "", handlePgxErr(err)
	}
	return content, nil
}

const upsertDocumentSQL = `
INSERT INTO documents (doc_id, source_url, source_type, content_hash,
    ingested_at, extraction_state, last_updated_at, content)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (doc_id) DO UPDATE SET
    source_url = EXCLUDED.source_url,
    source_type = EXCLUDED.source_type,
    content_hash = EXCLUDED.content_hash,
    extraction_state = EXCLUDED.extraction_state,
    last_updated_at = EXCLUDED.last_updated_at,
    content = EXCLUDED.content
`

func (s *PostgresStore) UpdateDocument(ctx context.Context, doc schema.Document, content string) error {
	ingestedAt, err := utils.TimeTo.PGTimestamptz(doc.IngestedAt)
	if err != nil {
		return ec.ErrDBTypeConversionError.Clone().
			WithMessage("failed to convert ingested_at to pgtype.Timestamptz").
			WithDetails(fmt.Sprintf("time: %v", doc.IngestedAt)).
			Warp(err)
	}
	lastUpdatedAt, err := utils.TimeTo.PGTimestamptz(doc.LastUpdatedAt)
	if err != nil {
		return ec.ErrDBTypeConversionError.Clone().
			WithMessage("failed to convert last_updated_at to pgtype.Timestamptz").
			WithDetails(fmt.Sprintf("time: %v", doc.LastUpdatedAt)).
			Warp(err)
	}

	_, err = s.pool.Exec(ctx, upsertDocumentSQL,
		doc.DocID, doc.SourceURL, doc.SourceType, doc.ContentHash,
		ingestedAt, doc.ExtractionState, lastUpdatedAt, content)
	if err != nil {
		return handlePgxErr(err)
	}
	return nil
}
