// Package config loads service configuration from a YAML file with .env
// and environment variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName     = "painsignal"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8085
	defaultConcurrency     = 10
	defaultBatchLimit      = 500
	defaultShutdownSec     = 15
	defaultLogLevel        = "info"
	defaultEmbeddingURL    = "http://embedder:8090"
	defaultEmbedTimeoutSec = 10
	defaultEmbedChunkSize  = 32
	defaultEmbedRPS        = 10
	defaultEmbedBurst      = 20
)

// Config holds all configuration for the pain-signal service.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"PAINSIGNAL_PORT"        yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"              yaml:"debug"`
	Concurrency     int           `env:"PAINSIGNAL_CONCURRENCY" yaml:"concurrency"`
	BatchLimit      int           `yaml:"batch_limit"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string   `env:"LOG_LEVEL" yaml:"level"`
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output_paths"`
}

// ScoringConfig holds scoring rule settings. RulesPath is optional; when
// empty the built-in rule table is used.
type ScoringConfig struct {
	RulesPath string `env:"PAINSIGNAL_RULES_PATH" yaml:"rules_path"`
}

// EmbeddingConfig holds embedding collaborator settings.
type EmbeddingConfig struct {
	Enabled   bool          `env:"EMBEDDING_ENABLED" yaml:"enabled"`
	BaseURL   string        `env:"EMBEDDING_URL"     yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	ChunkSize int           `yaml:"chunk_size"`
	RPS       int           `yaml:"rps"`
	Burst     int           `yaml:"burst"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLoggingDefaults(&cfg.Logging)
	setEmbeddingDefaults(&cfg.Embedding)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchLimit == 0 {
		s.BatchLimit = defaultBatchLimit
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownSec * time.Second
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if len(l.OutputPaths) == 0 {
		l.OutputPaths = []string{"stdout"}
	}
}

func setEmbeddingDefaults(e *EmbeddingConfig) {
	if e.BaseURL == "" {
		e.BaseURL = defaultEmbeddingURL
	}
	if e.Timeout == 0 {
		e.Timeout = defaultEmbedTimeoutSec * time.Second
	}
	if e.ChunkSize == 0 {
		e.ChunkSize = defaultEmbedChunkSize
	}
	if e.RPS == 0 {
		e.RPS = defaultEmbedRPS
	}
	if e.Burst == 0 {
		e.Burst = defaultEmbedBurst
	}
}
