// Package ingest implements the Docker Compose ingest pipeline named in
// §9's design notes: a Reader that turns raw YAML into typed records, and
// a use case that drives those records through the Batched Graph Writer
// while tallying per-family counts. Grounded on
// original_source/packages/ingest/readers/docker_compose.py's
// DockerComposeReader, generalised from its ad-hoc
// {"services": [...], "relationships": [...]} dict into the explicit
// struct-of-optional-slices §9 calls for.
package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/kgraph/extractor-core/internal/schema"
	"gopkg.in/yaml.v3"
)

// RawComposeData is the typed replacement for the source's ad-hoc
// dictionary: one optional slice per entity family the reader can
// populate, validated once at the boundary and passed downward as a
// single value.
type RawComposeData struct {
	ComposeFile         schema.ComposeFile
	ComposeProject      *schema.ComposeProject
	ComposeServices     []schema.ComposeService
	PortBindings        []schema.PortBinding
	ServiceDependencies []schema.ServiceDependency
}

type rawComposeYAML struct {
	Version  string                    `yaml:"version"`
	Name     string                    `yaml:"name"`
	Services map[string]rawServiceYAML `yaml:"services"`
}

type rawServiceYAML struct {
	Image      string      `yaml:"image"`
	Command    any         `yaml:"command"`
	Entrypoint any         `yaml:"entrypoint"`
	Restart    string      `yaml:"restart"`
	User       string      `yaml:"user"`
	WorkingDir string      `yaml:"working_dir"`
	Hostname   string      `yaml:"hostname"`
	DependsOn  any         `yaml:"depends_on"`
	Ports      []any       `yaml:"ports"`
}

const extractionMethod = "docker_compose_yaml_reader"
const extractorVersion = "1.0.0"

// ReadComposeFile parses docker-compose YAML content into a
// RawComposeData, failing with pkgs/errors.ErrReaderInvalidYAML on a
// malformed document and pkgs/errors.ErrReaderInvalidPort on an
// out-of-range port, mirroring DockerComposeReader.load_data's
// InvalidYAMLError/InvalidPortError taxonomy.
func ReadComposeFile(filePath, content string, now time.Time) (RawComposeData, error) {
	if strings.TrimSpace(content) == "" {
		return RawComposeData{}, ec.ErrReaderInvalidYAML.Clone().WithDetails("empty document")
	}

	var raw rawComposeYAML
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		return RawComposeData{}, ec.ErrReaderInvalidYAML.Clone().Warp(err)
	}
	if raw.Services == nil {
		return RawComposeData{}, ec.ErrReaderInvalidYAML.Clone().WithDetails("'services' must be a mapping")
	}

	prov := schema.Provenance{
		ExtractionTier:   schema.TierA,
		ExtractionMethod: extractionMethod,
		Confidence:       1.0,
		ExtractorVersion: extractorVersion,
	}
	temporal := schema.Temporal{CreatedAt: now, UpdatedAt: now, SourceTimestamp: &now}

	data := RawComposeData{
		ComposeFile: schema.ComposeFile{
			FilePath:   filePath,
			Version:    optionalString(raw.Version),
			Temporal:   temporal,
			Provenance: prov,
		},
	}

	if raw.Name != "" {
		data.ComposeProject = &schema.ComposeProject{
			ProjectName: raw.Name,
			FilePaths:   []string{filePath},
			Temporal:    temporal,
			Provenance:  prov,
		}
	}

	// Stable iteration order: sort by service name so ingestion results
	// (and tests) don't depend on Go's randomised map order.
	names := make([]string, 0, len(raw.Services))
	for name := range raw.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		svc := raw.Services[name]
		data.ComposeServices = append(data.ComposeServices, schema.ComposeService{
			Name:            name,
			ComposeFilePath: filePath,
			Image:           optionalString(svc.Image),
			Command:         optionalAnyString(svc.Command),
			Entrypoint:      optionalAnyString(svc.Entrypoint),
			Restart:         optionalString(svc.Restart),
			User:            optionalString(svc.User),
			WorkingDir:      optionalString(svc.WorkingDir),
			Hostname:        optionalString(svc.Hostname),
			Temporal:        temporal,
			Provenance:      prov,
		})

		for _, target := range dependsOnTargets(svc.DependsOn) {
			data.ServiceDependencies = append(data.ServiceDependencies, schema.ServiceDependency{
				ComposeFilePath: filePath,
				SourceService:   name,
				TargetService:   target,
				Temporal:        temporal,
				Provenance:      prov,
			})
		}

		for _, portEntry := range svc.Ports {
			binding, err := parsePortMapping(portEntry)
			if err != nil {
				return RawComposeData{}, err
			}
			if binding == nil {
				continue
			}
			binding.ComposeFilePath = filePath
			binding.ServiceName = name
			binding.Temporal = temporal
			binding.Provenance = prov
			data.PortBindings = append(data.PortBindings, *binding)
		}
	}

	return data, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalAnyString renders command/entrypoint, which Compose allows as
// either a bare string or a list, into a single display string.
func optionalAnyString(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return optionalString(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprintf("%v", p))
		}
		joined := strings.Join(parts, " ")
		return optionalString(joined)
	default:
		return nil
	}
}

// dependsOnTargets normalises depends_on's two legal shapes (a bare list
// of service names, or the v3+ condition-map form) into target names.
func dependsOnTargets(v any) []string {
	switch val := v.(type) {
	case []any:
		targets := make([]string, 0, len(val))
		for _, t := range val {
			if s, ok := t.(string); ok {
				targets = append(targets, s)
			}
		}
		return targets
	case map[string]any:
		targets := make([]string, 0, len(val))
		for t := range val {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		return targets
	default:
		return nil
	}
}

// parsePortMapping parses one entry of a service's `ports:` list into a
// PortBinding, mirroring _parse_port_mapping's string/int duality and its
// InvalidPortError on an out-of-range port.
func parsePortMapping(entry any) (*schema.PortBinding, error) {
	switch v := entry.(type) {
	case int:
		return portBindingFromHostPort(v, "tcp")
	case string:
		parts := strings.SplitN(v, ":", 2)
		if len(parts) < 2 {
			return nil, nil
		}
		hostPortStr := strings.TrimSpace(parts[0])
		containerPart := strings.TrimSpace(parts[1])

		protocol := "tcp"
		if idx := strings.Index(containerPart, "/"); idx >= 0 {
			protocol = strings.ToLower(containerPart[idx+1:])
			containerPart = containerPart[:idx]
		}

		hostPort, err := strconv.Atoi(hostPortStr)
		if err != nil {
			return nil, nil
		}
		containerPort, err := strconv.Atoi(containerPart)
		if err != nil {
			containerPort = hostPort
		}
		return portBindingFromMapping(hostPort, containerPort, protocol)
	default:
		return nil, nil
	}
}

func portBindingFromHostPort(port int, protocol string) (*schema.PortBinding, error) {
	if err := validatePortRange(port); err != nil {
		return nil, err
	}
	return &schema.PortBinding{
		ContainerPort: port,
		Protocol:      &protocol,
	}, nil
}

func portBindingFromMapping(hostPort, containerPort int, protocol string) (*schema.PortBinding, error) {
	if err := validatePortRange(hostPort); err != nil {
		return nil, err
	}
	if err := validatePortRange(containerPort); err != nil {
		return nil, err
	}
	return &schema.PortBinding{
		HostPort:      &hostPort,
		ContainerPort: containerPort,
		Protocol:      &protocol,
	}, nil
}

func validatePortRange(port int) error {
	if port < 1 || port > 65535 {
		return ec.ErrReaderInvalidPort.Clone().WithDetails(fmt.Sprintf("port %d must be between 1 and 65535", port))
	}
	return nil
}
