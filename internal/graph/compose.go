package graph

import (
	"context"

	"github.com/kgraph/extractor-core/internal/schema"
)

// ComposeWriter writes the Compose entity family: files, projects,
// services, port bindings, and depends_on edges. Grounded on
// original_source/packages/graph/writers/docker_compose_writer.py's
// per-family write_* methods and their UNWIND query shapes.
type ComposeWriter struct {
	open      SessionFactory
	batchSize int
}

func NewComposeWriter(open SessionFactory, batchSize int) *ComposeWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ComposeWriter{open: open, batchSize: batchSize}
}

const writeComposeFilesQuery = `
UNWIND $rows AS row
MERGE (f:ComposeFile {file_path: row.file_path})
SET f.version = row.version,
    f.project_name = row.project_name,
    f.created_at = row.created_at,
    f.updated_at = row.updated_at,
    f.source_timestamp = row.source_timestamp,
    f.extraction_tier = row.extraction_tier,
    f.extraction_method = row.extraction_method,
    f.confidence = row.confidence,
    f.extractor_version = row.extractor_version
RETURN count(f) AS written_count
`

func (w *ComposeWriter) WriteComposeFiles(ctx context.Context, files []schema.ComposeFile) (WriteResult, error) {
	return runBatches(ctx, w.open, files, w.batchSize, writeComposeFilesQuery, func(batch []schema.ComposeFile) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, f := range batch {
			rows[i] = merge(map[string]any{
				"file_path":    f.FilePath,
				"version":      f.Version,
				"project_name": f.ProjectName,
			}, temporalParams(f.Temporal), provenanceParams(f.Provenance))
		}
		return rows
	})
}

const writeComposeProjectsQuery = `
UNWIND $rows AS row
MERGE (p:ComposeProject {project_name: row.project_name})
SET p.file_paths = row.file_paths,
    p.created_at = row.created_at,
    p.updated_at = row.updated_at,
    p.source_timestamp = row.source_timestamp,
    p.extraction_tier = row.extraction_tier,
    p.extraction_method = row.extraction_method,
    p.confidence = row.confidence,
    p.extractor_version = row.extractor_version
RETURN count(p) AS written_count
`

func (w *ComposeWriter) WriteComposeProjects(ctx context.Context, projects []schema.ComposeProject) (WriteResult, error) {
	return runBatches(ctx, w.open, projects, w.batchSize, writeComposeProjectsQuery, func(batch []schema.ComposeProject) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, p := range batch {
			rows[i] = merge(map[string]any{
				"project_name": p.ProjectName,
				"file_paths":   p.FilePaths,
			}, temporalParams(p.Temporal), provenanceParams(p.Provenance))
		}
		return rows
	})
}

const writeComposeServicesQuery = `
UNWIND $rows AS row
MERGE (s:ComposeService {compose_file_path: row.compose_file_path, name: row.name})
SET s.image = row.image,
    s.command = row.command,
    s.entrypoint = row.entrypoint,
    s.restart = row.restart,
    s.cpus = row.cpus,
    s.memory = row.memory,
    s.user = row.user,
    s.working_dir = row.working_dir,
    s.hostname = row.hostname,
    s.created_at = row.created_at,
    s.updated_at = row.updated_at,
    s.source_timestamp = row.source_timestamp,
    s.extraction_tier = row.extraction_tier,
    s.extraction_method = row.extraction_method,
    s.confidence = row.confidence,
    s.extractor_version = row.extractor_version
RETURN count(s) AS written_count
`

func (w *ComposeWriter) WriteComposeServices(ctx context.Context, services []schema.ComposeService) (WriteResult, error) {
	return runBatches(ctx, w.open, services, w.batchSize, writeComposeServicesQuery, func(batch []schema.ComposeService) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, s := range batch {
			rows[i] = merge(map[string]any{
				"compose_file_path": s.ComposeFilePath,
				"name":              s.Name,
				"image":             s.Image,
				"command":           s.Command,
				"entrypoint":        s.Entrypoint,
				"restart":           s.Restart,
				"cpus":              s.CPUs,
				"memory":            s.Memory,
				"user":              s.User,
				"working_dir":       s.WorkingDir,
				"hostname":          s.Hostname,
			}, temporalParams(s.Temporal), provenanceParams(s.Provenance))
		}
		return rows
	})
}

const writePortBindingsQuery = `
UNWIND $rows AS row
MERGE (p:PortBinding {
    compose_file_path: row.compose_file_path,
    service_name: row.service_name,
    host_ip: row.host_ip,
    host_port: row.host_port,
    container_port: row.container_port,
    protocol: row.protocol
})
SET p.created_at = row.created_at,
    p.updated_at = row.updated_at,
    p.source_timestamp = row.source_timestamp,
    p.extraction_tier = row.extraction_tier,
    p.extraction_method = row.extraction_method,
    p.confidence = row.confidence,
    p.extractor_version = row.extractor_version
RETURN count(p) AS written_count
`

func (w *ComposeWriter) WritePortBindings(ctx context.Context, bindings []schema.PortBinding) (WriteResult, error) {
	return runBatches(ctx, w.open, bindings, w.batchSize, writePortBindingsQuery, func(batch []schema.PortBinding) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, p := range batch {
			hostIP := "0.0.0.0"
			if p.HostIP != nil {
				hostIP = *p.HostIP
			}
			hostPort := 0
			if p.HostPort != nil {
				hostPort = *p.HostPort
			}
			protocol := "tcp"
			if p.Protocol != nil {
				protocol = *p.Protocol
			}
			rows[i] = merge(map[string]any{
				"compose_file_path": p.ComposeFilePath,
				"service_name":      p.ServiceName,
				"host_ip":           hostIP,
				"host_port":         hostPort,
				"container_port":    p.ContainerPort,
				"protocol":          protocol,
			}, temporalParams(p.Temporal), provenanceParams(p.Provenance))
		}
		return rows
	})
}

const writeServiceDependenciesQuery = `
UNWIND $rows AS row
OPTIONAL MATCH (source:ComposeService {compose_file_path: row.compose_file_path, name: row.source_service})
OPTIONAL MATCH (target:ComposeService {compose_file_path: row.compose_file_path, name: row.target_service})
WITH row, source, target
WHERE source IS NOT NULL AND target IS NOT NULL
MERGE (source)-[r:DEPENDS_ON]->(target)
SET r.condition = row.condition,
    r.created_at = row.created_at,
    r.updated_at = row.updated_at,
    r.source_timestamp = row.source_timestamp,
    r.extraction_tier = row.extraction_tier,
    r.extraction_method = row.extraction_method,
    r.confidence = row.confidence,
    r.extractor_version = row.extractor_version
RETURN count(r) AS written_count
`

// WriteServiceDependencies writes DEPENDS_ON edges, skipping (without
// failing the batch) any row whose source or target service node is
// missing, per §4.6's edge-write contract.
func (w *ComposeWriter) WriteServiceDependencies(ctx context.Context, deps []schema.ServiceDependency) (WriteResult, error) {
	return runBatches(ctx, w.open, deps, w.batchSize, writeServiceDependenciesQuery, func(batch []schema.ServiceDependency) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			rows[i] = merge(map[string]any{
				"compose_file_path": d.ComposeFilePath,
				"source_service":    d.SourceService,
				"target_service":    d.TargetService,
				"condition":         d.Condition,
			}, temporalParams(d.Temporal), provenanceParams(d.Provenance))
		}
		return rows
	})
}
