// Package graph implements the Batched Graph Writer: grouping typed
// entity records into fixed-size batches and issuing idempotent,
// parameterised MERGE upserts against a property-graph store, plus
// typed relationship writes that match endpoint nodes by natural key.
// Grounded on original_source/packages/graph/writers/docker_compose_writer.py's
// UNWIND-batched session.run idiom, adapted to the neo4j-go-driver/v5
// session/ExecuteWrite API the teacher's pack (other_examples manifests)
// uses for this store family.
package graph

import "context"

// DefaultBatchSize is the number of rows bound to a single UNWIND
// parameter list per write, per §4.6's batching contract.
const DefaultBatchSize = 2000

// WriteResult is the outcome of one write_* call: how many rows were
// actually written (successful MERGEs) and how many batches it took.
type WriteResult struct {
	TotalWritten    int
	BatchesExecuted int
}

// Session is the minimal unit of work a Writer needs: run one
// parameterised query and report how many rows it affected. Real
// implementations wrap a neo4j.SessionWithContext; tests can fake it.
type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any) (affected int, err error)
	Close(ctx context.Context) error
}

// SessionFactory opens a new write session, scoped per batch per §5's
// shared-resource contract ("graph-store session scoped per write
// batch; closed on all exit paths").
type SessionFactory func(ctx context.Context) (Session, error)

// batchRows splits rows into contiguous slices of at most size,
// the shared batching primitive every write_* method uses.
func batchRows[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(rows) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(rows)+size-1)/size)
	for i := 0; i < len(rows); i += size {
		end := min(i+size, len(rows))
		batches = append(batches, rows[i:end])
	}
	return batches
}

// runBatches executes toParams(batch) for each contiguous slice of rows
// in a session of its own, opened before and closed after that batch,
// and accumulates a WriteResult. It stops at the first failing batch and
// returns the counts of the batches written before it.
func runBatches[T any](
	ctx context.Context,
	open SessionFactory,
	rows []T,
	batchSize int,
	cypher string,
	toParams func([]T) []map[string]any,
) (WriteResult, error) {
	batches := batchRows(rows, batchSize)
	if len(batches) == 0 {
		return WriteResult{}, nil
	}

	var result WriteResult
	for _, batch := range batches {
		session, err := open(ctx)
		if err != nil {
			return result, err
		}
		affected, err := session.Run(ctx, cypher, map[string]any{"rows": toParams(batch)})
		session.Close(ctx)
		if err != nil {
			return result, err
		}
		result.TotalWritten += affected
		result.BatchesExecuted++
	}
	return result, nil
}
