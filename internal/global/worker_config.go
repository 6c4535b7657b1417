package global

import (
	"time"

	"github.com/spf13/viper"
)

// LoadOtelConfig returns OpenTelemetry exporter configuration from Viper.
func LoadOtelConfig() *OtelConfig {
	viper.SetDefault("OTEL_SERVICE_NAME", "extractor-core")
	viper.SetDefault("OTEL_EXPORTER_INSECURE", true)

	return &OtelConfig{
		ServiceName:       viper.GetString("OTEL_SERVICE_NAME"),
		CollectorEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:          viper.GetBool("OTEL_EXPORTER_INSECURE"),
	}
}

// LoadLLMConfig returns the active Tier-C provider's configuration from
// Viper. Only the section matching LLM_PROVIDER need be populated; the
// others are read regardless so a provider swap needs no code change.
func LoadLLMConfig() *LLMConfig {
	viper.SetDefault("LLM_PROVIDER", "ollama")

	return &LLMConfig{
		Provider: viper.GetString("LLM_PROVIDER"),
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
			Model:   viper.GetString("OPENAI_MODEL"),
			Timeout: viper.GetDuration("OPENAI_TIMEOUT"),
		},
		Ollama: OllamaConfig{
			BaseURL: viper.GetString("OLLAMA_BASE_URL"),
			Model:   viper.GetString("OLLAMA_MODEL"),
			Timeout: viper.GetDuration("OLLAMA_TIMEOUT"),
		},
		Gemini: GeminiConfig{
			APIKey:  viper.GetString("GEMINI_API_KEY"),
			BaseURL: viper.GetString("GEMINI_BASE_URL"),
			Model:   viper.GetString("GEMINI_MODEL"),
			Timeout: viper.GetDuration("GEMINI_TIMEOUT"),
		},
	}
}

// LoadWorkerConfig returns the Background Worker's polling/health-check
// configuration from Viper.
func LoadWorkerConfig() *WorkerConfig {
	viper.SetDefault("WORKER_POP_TIMEOUT", 5*time.Second)
	viper.SetDefault("WORKER_HEALTH_CHECK_HOST", "localhost")
	viper.SetDefault("WORKER_HEALTH_CHECK_PORT", 8081)
	viper.SetDefault("WORKER_SHUTDOWN_WAIT_TIME", 10*time.Second)

	return &WorkerConfig{
		Timeout:          viper.GetDuration("WORKER_POP_TIMEOUT"),
		HealthCheckHost:  viper.GetString("WORKER_HEALTH_CHECK_HOST"),
		HealthCheckPort:  viper.GetInt("WORKER_HEALTH_CHECK_PORT"),
		ShutdownWaitTime: viper.GetDuration("WORKER_SHUTDOWN_WAIT_TIME"),
	}
}
