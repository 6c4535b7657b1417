package main

import (
	"context"
	"os"
	"time"

	"github.com/kgraph/extractor-core/internal/global"
	"github.com/kgraph/extractor-core/internal/graph"
	"github.com/kgraph/extractor-core/internal/ingest"
	"github.com/spf13/pflag"
)

// main is the batch Compose-ingest CLI's composition root, per §6: it
// reads one docker-compose YAML file, writes its recovered entities into
// the graph store through the Batched Graph Writer, and exits 0 on
// success or 1 on any failure, mirroring cmd/migrate's flag/exit-code
// convention.
func main() {
	var path string
	pflag.StringVarP(&path, "file", "f", "docker-compose.yml", "path to the docker-compose file to ingest")
	pflag.Parse()

	global.SetMode("dev")
	global.Logger = global.InitBaseLogger()

	if err := global.ReadDotEnvFile(".env", "env", []string{"."}); err != nil {
		global.Logger.Warn().Err(err).Msg("failed to read .env file, continuing with process environment")
	}

	cfg := global.LoadIngestProcessConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		global.Logger.Err(err).Str("file", path).Msg("failed to read compose file")
		os.Exit(1)
	}

	data, err := ingest.ReadComposeFile(path, string(content), time.Now().UTC())
	if err != nil {
		global.Logger.Err(err).Str("file", path).Msg("failed to parse compose file")
		os.Exit(1)
	}

	ctx := context.Background()
	driver, err := cfg.Neo4j.Driver()
	if err != nil {
		global.Logger.Err(err).Msg("failed to open graph store driver")
		os.Exit(1)
	}
	defer driver.Close(ctx)

	store := graph.NewNeo4jStore(driver, cfg.Neo4j.Database, global.Logger)
	writer := graph.NewComposeWriter(store.OpenSession, cfg.Batch)
	useCase := ingest.NewComposeUseCase(writer)

	result, err := useCase.Execute(ctx, data)
	if err != nil {
		global.Logger.Err(err).Str("file", path).Msg("compose ingestion failed")
		os.Exit(1)
	}

	global.Logger.Info().
		Str("file", path).
		Int("compose_files", result.ComposeFiles).
		Int("compose_projects", result.ComposeProjects).
		Int("compose_services", result.ComposeServices).
		Int("port_bindings", result.PortBindings).
		Int("service_dependencies", result.ServiceDependencies).
		Int("total_nodes", result.TotalNodes()).
		Int("total_relationships", result.TotalRelationships()).
		Msg("compose ingestion complete")
}
