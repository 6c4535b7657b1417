package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
)

// Neo4jStore opens one neo4j.SessionWithContext per write batch, backed
// by a single long-lived driver per process, matching the LLM/Cache
// clients' one-per-process shared-resource shape in §5.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   zerolog.Logger
}

func NewNeo4jStore(driver neo4j.DriverWithContext, database string, logger zerolog.Logger) *Neo4jStore {
	return &Neo4jStore{driver: driver, database: database, logger: logger}
}

// OpenSession implements SessionFactory.
func (s *Neo4jStore) OpenSession(ctx context.Context) (Session, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	return &neo4jSession{session: session, logger: s.logger}, nil
}

type neo4jSession struct {
	session neo4j.SessionWithContext
	logger  zerolog.Logger
}

func (s *neo4jSession) Run(ctx context.Context, cypher string, params map[string]any) (int, error) {
	result, err := s.session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cursor, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		record, err := cursor.Single(ctx)
		if err != nil {
			// A query with zero matching rows (e.g. every relationship
			// endpoint missing) has no RETURN row; that is not a failure.
			summary, sErr := cursor.Consume(ctx)
			if sErr != nil {
				return nil, sErr
			}
			s.logger.Debug().
				Int64("rows_affected", 0).
				Str("query_type", string(summary.StatementType())).
				Msg("batch produced no rows")
			return 0, nil
		}
		count, _ := record.Get("written_count")
		n, _ := count.(int64)
		return int(n), nil
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j: write failed: %w", err)
	}
	n, _ := result.(int)
	return n, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}
