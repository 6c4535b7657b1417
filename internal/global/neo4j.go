package global

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/viper"
)

// LoadNeo4jConfig returns the graph store's connection configuration
// from Viper, mirroring LoadValkeyConfig/LoadPostgresConfig's
// default-then-override shape.
func LoadNeo4jConfig() *Neo4jConfig {
	viper.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	viper.SetDefault("NEO4J_USERNAME", "neo4j")
	viper.SetDefault("NEO4J_DATABASE", "neo4j")

	return &Neo4jConfig{
		URI:      viper.GetString("NEO4J_URI"),
		Username: viper.GetString("NEO4J_USERNAME"),
		Password: viper.GetString("NEO4J_PASSWORD"),
		Database: viper.GetString("NEO4J_DATABASE"),
	}
}

// Driver opens a neo4j.DriverWithContext for this configuration. The
// caller owns the returned driver's lifecycle (Close it on shutdown), the
// same request-scoped-at-the-process-level contract as PostgresPool.
func (c Neo4jConfig) Driver() (neo4j.DriverWithContext, error) {
	return neo4j.NewDriverWithContext(c.URI, neo4j.BasicAuth(c.Username, c.Password, ""))
}

// LoadAPIProcessConfig assembles the API composition root's full
// configuration, reusing the worker's per-backend loaders plus the
// graph store the extraction status/pending endpoints don't touch
// directly but the ingest path shares.
func LoadAPIProcessConfig() (*APIConfig, error) {
	viper.SetDefault("API_NAME", "extractor-api")
	viper.SetDefault("API_HOST", "localhost")
	viper.SetDefault("API_PORT", 8080)

	pg := LoadPostgresConfig()
	return &APIConfig{
		Name:     viper.GetString("API_NAME"),
		Host:     viper.GetString("API_HOST"),
		Port:     viper.GetInt("API_PORT"),
		Postgres: *pg,
		NATS:     *LoadNATSConfig(),
		Valkey:   *LoadValkeyConfig(),
		Neo4j:    *LoadNeo4jConfig(),
		LLM:      *LoadLLMConfig(),
		Otel:     *LoadOtelConfig(),
	}, nil
}

// LoadIngestProcessConfig assembles the batch Compose-ingest CLI's
// configuration.
func LoadIngestProcessConfig() *IngestProcessConfig {
	viper.SetDefault("INGEST_NAME", "extractor-ingest")
	viper.SetDefault("INGEST_BATCH_SIZE", 2000)

	return &IngestProcessConfig{
		Name:  viper.GetString("INGEST_NAME"),
		Neo4j: *LoadNeo4jConfig(),
		Otel:  *LoadOtelConfig(),
		Batch: viper.GetInt("INGEST_BATCH_SIZE"),
	}
}
