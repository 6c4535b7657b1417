package global

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ZeroLogConfig struct {
	GlobalLevel      int8   `json:"global_level"`
	Console          bool   `json:"console"`
	LogFile          string `json:"log_file"`
	IncludeTimestamp bool   `json:"include_timestamp"`
	UseUnixTimestamp bool   `json:"use_unix_timestamp"`
}

type OtelConfig struct {
	ServiceName       string `json:"service_name"`
	CollectorEndpoint string `json:"collector_endpoint"`
	Insecure          bool   `json:"insecure"`
}

type ValkeyConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type WorkerConfig struct {
	Timeout          time.Duration `json:"timeout"`
	HealthCheckPort  int           `json:"health_check_port"`
	HealthCheckHost  string        `json:"health_check_host"`
	ShutdownWaitTime time.Duration `json:"shutdown_wait_time"`
}

type OpenAIConfig struct {
	APIKey  string        `json:"api_key"`
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

type OllamaConfig struct {
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

type GeminiConfig struct {
	APIKey  string        `json:"api_key"`
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

type LLMConfig struct {
	Provider string       `json:"provider"`
	OpenAI   OpenAIConfig `json:"openai"`
	Ollama   OllamaConfig `json:"ollama"`
	Gemini   GeminiConfig `json:"gemini"`
}

type Neo4jConfig struct {
	URI      string `json:"uri"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

type APIConfig struct {
	Name            string         `json:"name"`
	Host            string         `json:"host"`
	Port            int            `json:"port"`
	ShutdownTimeout time.Duration  `json:"shutdown_timeout"`
	Logger          ZeroLogConfig  `json:"logger"`
	Postgres        PostgresConfig `json:"postgres"`
	NATS            NATSConfig     `json:"nats"`
	Valkey          ValkeyConfig   `json:"valkey"`
	Neo4j           Neo4jConfig    `json:"neo4j"`
	LLM             LLMConfig      `json:"llm"`
	Otel            OtelConfig     `json:"otel"`
}

type MigrateConfig struct {
	Name       string         `json:"name"`
	Postgres   PostgresConfig `json:"postgres"`
	Migrations string         `json:"migrations"`
}

// WorkerProcessConfig is the composition-root configuration for the
// background extraction worker: queue polling, the document store, the
// cache backend, and the LLM tier it drives.
type WorkerProcessConfig struct {
	Name     string         `json:"name"`
	Logger   ZeroLogConfig  `json:"logger"`
	Otel     OtelConfig     `json:"otel"`
	NATS     NATSConfig     `json:"nats"`
	Postgres PostgresConfig `json:"postgres"`
	Valkey   ValkeyConfig   `json:"valkey"`
	Worker   WorkerConfig   `json:"worker"`
	LLM      LLMConfig      `json:"llm"`
}

// IngestProcessConfig is the composition-root configuration for the
// batch Compose-ingest CLI: the graph store it writes into plus tracing
// and the write batch size.
type IngestProcessConfig struct {
	Name  string        `json:"name"`
	Neo4j Neo4jConfig   `json:"neo4j"`
	Otel  OtelConfig    `json:"otel"`
	Batch int           `json:"batch"`
}

// LoadWorkerProcessConfig assembles the worker composition root's full
// configuration from the individual per-backend loaders, reading the
// Postgres password file (if configured) eagerly so the caller can
// Validate immediately.
func LoadWorkerProcessConfig() (*WorkerProcessConfig, error) {
	viper.SetDefault("WORKER_NAME", "extractor-worker")

	pg := LoadPostgresConfig()
	if pg == nil {
		return nil, fmt.Errorf("failed to load Postgres configuration")
	}

	nats := LoadNATSConfig()
	if err := nats.Validate(); err != nil {
		return nil, fmt.Errorf("NATS configuration invalid: %w", err)
	}
	if err := pg.Validate(); err != nil {
		return nil, fmt.Errorf("Postgres configuration invalid: %w", err)
	}

	return &WorkerProcessConfig{
		Name:     viper.GetString("WORKER_NAME"),
		Otel:     *LoadOtelConfig(),
		NATS:     *nats,
		Postgres: *pg,
		Valkey:   *LoadValkeyConfig(),
		Worker:   *LoadWorkerConfig(),
		LLM:      *LoadLLMConfig(),
	}, nil
}
