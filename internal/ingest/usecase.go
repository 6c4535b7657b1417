package ingest

import (
	"context"

	"github.com/kgraph/extractor-core/internal/graph"
	"github.com/kgraph/extractor-core/internal/schema"
)

// IngestionResult is the per-family write tally returned by
// ComposeUseCase.Execute, grounded on
// original_source/packages/core/use_cases/ingest_docker_compose.py's
// DockerComposeIngestionResult dataclass. Families the source tracks but
// this module's recovered entity set doesn't model (networks, volumes,
// env vars, image details, health checks, build contexts, device
// mappings) are out of scope here; see DESIGN.md.
type IngestionResult struct {
	ComposeFiles        int
	ComposeProjects     int
	ComposeServices     int
	PortBindings        int
	ServiceDependencies int
}

// TotalNodes sums every node-entity family written, per §8 scenario 1's
// "total_nodes ≥ 4+5" expectation (services + port bindings).
func (r IngestionResult) TotalNodes() int {
	return r.ComposeFiles + r.ComposeProjects + r.ComposeServices + r.PortBindings
}

// TotalRelationships sums every edge-entity family written.
func (r IngestionResult) TotalRelationships() int {
	return r.ServiceDependencies
}

// ComposeUseCase drives a RawComposeData through the Batched Graph
// Writer, tallying per-family write counts. It holds no other state; the
// writer it wraps owns the graph-store session lifecycle per batch.
type ComposeUseCase struct {
	writer *graph.ComposeWriter
}

func NewComposeUseCase(writer *graph.ComposeWriter) *ComposeUseCase {
	return &ComposeUseCase{writer: writer}
}

// Execute writes every populated family of data in turn, skipping empty
// families without issuing a write call (mirroring the source's `if
// compose_services:` guards before each write_*).
func (u *ComposeUseCase) Execute(ctx context.Context, data RawComposeData) (IngestionResult, error) {
	var result IngestionResult

	filesWritten, err := u.writer.WriteComposeFiles(ctx, []schema.ComposeFile{data.ComposeFile})
	if err != nil {
		return result, err
	}
	result.ComposeFiles = filesWritten.TotalWritten

	if data.ComposeProject != nil {
		projectsWritten, err := u.writer.WriteComposeProjects(ctx, []schema.ComposeProject{*data.ComposeProject})
		if err != nil {
			return result, err
		}
		result.ComposeProjects = projectsWritten.TotalWritten
	}

	if len(data.ComposeServices) > 0 {
		servicesWritten, err := u.writer.WriteComposeServices(ctx, data.ComposeServices)
		if err != nil {
			return result, err
		}
		result.ComposeServices = servicesWritten.TotalWritten
	}

	if len(data.PortBindings) > 0 {
		bindingsWritten, err := u.writer.WritePortBindings(ctx, data.PortBindings)
		if err != nil {
			return result, err
		}
		result.PortBindings = bindingsWritten.TotalWritten
	}

	if len(data.ServiceDependencies) > 0 {
		depsWritten, err := u.writer.WriteServiceDependencies(ctx, data.ServiceDependencies)
		if err != nil {
			return result, err
		}
		result.ServiceDependencies = depsWritten.TotalWritten
	}

	return result, nil
}
