package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

var validate = validator.New()

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config, applies defaults and validates the result.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-section requirements.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if (c.Queue.Backend == "redis" || c.Failures.Backend == "redis") && c.Redis.URL == "" {
		return errors.New("invalid config: redis.url is required for the redis backend")
	}
	if c.Failures.Backend == "postgres" && c.Database.URL == "" {
		return errors.New("invalid config: database.url is required for the postgres journal")
	}
	return nil
}

// ValidateIngest checks the settings needed to reach the ingestion service.
// Commands that only touch the queue or the journal skip it.
func (c *AppConfig) ValidateIngest() error {
	if c.Ingest.Endpoint == "" {
		return errors.New("invalid config: ingest.endpoint is required to process the queue")
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Queue.Backend == "" {
		cfg.Queue.Backend = "file"
	}
	if cfg.Queue.Backend == "file" && cfg.Queue.Path == "" {
		cfg.Queue.Path = "queue.txt"
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "default"
	}

	if cfg.Retry.Base == 0 {
		cfg.Retry.Base = 1 * time.Second
	}
	if cfg.Retry.Step == 0 {
		cfg.Retry.Step = 1 * time.Second
	}
	if cfg.Retry.Max == 0 {
		cfg.Retry.Max = 10 * time.Second
	}

	if cfg.Ingest.Transport == "" {
		cfg.Ingest.Transport = "http"
	}
	if cfg.Ingest.Timeout == 0 {
		cfg.Ingest.Timeout = 60 * time.Second
	}

	if cfg.Failures.Backend == "" {
		cfg.Failures.Backend = "none"
	}
	if cfg.Failures.MaxRecords == 0 {
		cfg.Failures.MaxRecords = 1000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
