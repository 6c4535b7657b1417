package schema

// ComposeFile is the root entity for one Docker Compose file, grounded on
// original_source/packages/schemas/docker_compose/compose_file.py.
type ComposeFile struct {
	FilePath    string  `json:"file_path" validate:"required"`
	Version     *string `json:"version,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`

	Temporal
	Provenance
}

// ComposeProject groups one or more ComposeFiles under a shared project
// name, recovered from original_source (spec.md's table omits it; the
// Compose ingest scenario already implies project grouping).
type ComposeProject struct {
	ProjectName string   `json:"project_name" validate:"required"`
	FilePaths   []string `json:"file_paths"`

	Temporal
	Provenance
}

// ComposeService is one service definition within a Compose file, keyed
// by (compose_file_path, name).
type ComposeService struct {
	Name            string  `json:"name" validate:"required"`
	ComposeFilePath string  `json:"compose_file_path" validate:"required"`
	Image           *string `json:"image,omitempty"`
	Command         *string `json:"command,omitempty"`
	Entrypoint      *string `json:"entrypoint,omitempty"`
	Restart         *string `json:"restart,omitempty"`
	CPUs            *float64 `json:"cpus,omitempty" validate:"omitempty,gte=0"`
	Memory          *string `json:"memory,omitempty"`
	User            *string `json:"user,omitempty"`
	WorkingDir      *string `json:"working_dir,omitempty"`
	Hostname        *string `json:"hostname,omitempty"`

	Temporal
	Provenance
}

// PortBinding is a single host:container port mapping declared by a
// service, keyed by (compose_file_path, service_name, host_ip, host_port,
// container_port, protocol).
type PortBinding struct {
	ComposeFilePath string  `json:"compose_file_path" validate:"required"`
	ServiceName     string  `json:"service_name" validate:"required"`
	HostIP          *string `json:"host_ip,omitempty"`
	HostPort        *int    `json:"host_port,omitempty" validate:"omitempty,gte=1,lte=65535"`
	ContainerPort   int     `json:"container_port" validate:"required,gte=1,lte=65535"`
	Protocol        *string `json:"protocol,omitempty" validate:"omitempty,oneof=tcp udp"`

	Temporal
	Provenance
}

// ServiceDependency is a depends_on edge between two services in the
// same Compose file, keyed by (compose_file_path, source_service,
// target_service). Condition is recovered from original_source.
type ServiceDependency struct {
	ComposeFilePath string  `json:"compose_file_path" validate:"required"`
	SourceService   string  `json:"source_service" validate:"required"`
	TargetService   string  `json:"target_service" validate:"required"`
	Condition       *string `json:"condition,omitempty" validate:"omitempty,oneof=service_started service_healthy service_completed_successfully"`

	Temporal
	Provenance
}
