package schema_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionJobRoundTrip(t *testing.T) {
	job := schema.NewExtractionJob(uuid.New(), uuid.New(), time.Now().UTC())
	job.State = schema.StateTierADone
	job.TierATriples = 3

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded schema.ExtractionJob
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, job, decoded)
}

func TestComposeServiceValidation(t *testing.T) {
	now := time.Now().UTC()
	svc := schema.ComposeService{
		Name:            "web",
		ComposeFilePath: "/tmp/docker-compose.yml",
		Temporal:        schema.Temporal{CreatedAt: now, UpdatedAt: now},
		Provenance: schema.Provenance{
			ExtractionTier:   schema.TierA,
			ExtractionMethod: "yaml_parser",
			Confidence:       1.0,
			ExtractorVersion: "1.0.0",
		},
	}
	assert.NoError(t, schema.Validate().Struct(svc))

	svc.Provenance.Confidence = 1.5
	assert.Error(t, schema.Validate().Struct(svc))
}

func TestPortBindingRange(t *testing.T) {
	now := time.Now().UTC()
	base := schema.PortBinding{
		ComposeFilePath: "compose.yaml",
		ServiceName:     "web",
		ContainerPort:   99999,
		Temporal:        schema.Temporal{CreatedAt: now, UpdatedAt: now},
		Provenance: schema.Provenance{
			ExtractionTier:   schema.TierA,
			ExtractionMethod: "yaml_parser",
			Confidence:       1.0,
			ExtractorVersion: "1.0.0",
		},
	}
	assert.Error(t, schema.Validate().Struct(base))

	base.ContainerPort = 8080
	assert.NoError(t, schema.Validate().Struct(base))
}

func TestUnifiClientMACValidation(t *testing.T) {
	now := time.Now().UTC()
	c := schema.UnifiClient{
		MAC:      "AA:BB:CC:DD:EE:FF",
		Temporal: schema.Temporal{CreatedAt: now, UpdatedAt: now},
		Provenance: schema.Provenance{
			ExtractionTier:   schema.TierA,
			ExtractionMethod: "unifi_api",
			Confidence:       1.0,
			ExtractorVersion: "1.0.0",
		},
	}
	assert.NoError(t, schema.Validate().Struct(c))

	c.MAC = schema.NormalizeMAC(c.MAC)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", c.MAC)

	c.MAC = "not-a-mac"
	assert.Error(t, schema.Validate().Struct(c))
}

func TestApiKeyHashLength(t *testing.T) {
	now := time.Now().UTC()
	k := schema.ApiKey{
		KeyHash:  "short",
		IsActive: true,
		Temporal: schema.Temporal{CreatedAt: now, UpdatedAt: now},
	}
	assert.Error(t, schema.Validate().Struct(k))
}
