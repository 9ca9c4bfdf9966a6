// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal         string `env:"SERVICE_PRINCIPAL" envDefault:"svc-advisor-stream"`
	HTTPPort          string `env:"HTTP_PORT" envDefault:"8000"`
	ObservabilityPort string `env:"OBSERVABILITY_PORT" envDefault:"9090"`
	Environment       string `env:"ENV" envDefault:"prod"`
}

// STTConfig holds speech-to-text session settings.
type STTConfig struct {
	Provider       string `env:"STT_PROVIDER" envDefault:"mock"`
	LanguageCode   string `env:"STT_LANGUAGE_CODE" envDefault:"en-US"`
	SampleRateHz   int32  `env:"STT_SAMPLE_RATE_HZ" envDefault:"8000"`
	InterimResults bool   `env:"STT_INTERIM_RESULTS" envDefault:"true"`
	AudioEncoding  string `env:"STT_AUDIO_ENCODING" envDefault:"MULAW"`
}

// ClassifierConfig holds intent classifier settings.
type ClassifierConfig struct {
	BaseURL string `env:"CLASSIFIER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	APIKey  string `env:"OPENROUTER_API_KEY"`
	Model   string `env:"CLASSIFIER_MODEL" envDefault:"openai/gpt-4o"`
}

// SummarizerConfig holds meeting summarizer settings.
type SummarizerConfig struct {
	Model string `env:"SUMMARIZER_MODEL" envDefault:"openai/gpt-4o-mini"`
}

// MarketDataConfig holds market data provider settings.
type MarketDataConfig struct {
	BaseURL           string   `env:"POLYGON_BASE_URL" envDefault:"https://api.polygon.io"`
	APIKeys           []string `env:"POLYGON_API_KEYS" envSeparator:","`
	RequestsPerMinute int      `env:"POLYGON_REQUESTS_PER_MINUTE" envDefault:"5"`
}

// DataConfig holds paths to the file-backed lookup documents.
type DataConfig struct {
	BucketsFile    string `env:"BUCKETS_FILE" envDefault:"data/buckets.json"`
	ProfilesFile   string `env:"PROFILES_FILE" envDefault:"data/profiles.json"`
	PortfoliosFile string `env:"PORTFOLIOS_FILE" envDefault:"data/portfolios.json"`
}

// KafkaConfig holds transcript audit stream settings.
type KafkaConfig struct {
	Enabled      bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	TopicInterim string   `env:"KAFKA_TOPIC_INTERIM" envDefault:"advisor.transcript.interim"`
	TopicFinal   string   `env:"KAFKA_TOPIC_FINAL" envDefault:"advisor.transcript.final"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Config is the root configuration for the service.
type Config struct {
	Service       ServiceConfig
	STT           STTConfig
	Classifier    ClassifierConfig
	Summarizer    SummarizerConfig
	MarketData    MarketDataConfig
	Data          DataConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
