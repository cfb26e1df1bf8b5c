package config

import (
	"time"

	redisclient "github.com/vietddude/docqueue/internal/infra/redis"
	"github.com/vietddude/docqueue/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Queue    QueueConfig        `yaml:"queue"`
	Retry    RetryConfig        `yaml:"retry"`
	Ingest   IngestConfig       `yaml:"ingest"`
	Failures FailuresConfig     `yaml:"failures"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
	Server   ServerConfig       `yaml:"server"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// QueueConfig selects where pending items live.
type QueueConfig struct {
	Backend string `yaml:"backend" validate:"oneof=file redis"`
	Path    string `yaml:"path"    validate:"required_if=Backend file"` // queue file for the file backend
	Name    string `yaml:"name"    validate:"required"`                 // queue name used in keys and the journal
}

// RetryConfig holds the timeout backoff policy.
type RetryConfig struct {
	Base time.Duration `yaml:"base" validate:"gt=0"`
	Step time.Duration `yaml:"step" validate:"gt=0"`
	Max  time.Duration `yaml:"max"  validate:"gtefield=Base"`
}

// IngestConfig describes how items reach the ingestion service.
type IngestConfig struct {
	Transport string            `yaml:"transport" validate:"oneof=http grpc"`
	Endpoint  string            `yaml:"endpoint"`
	Method    string            `yaml:"method"` // gRPC full method name
	Timeout   time.Duration     `yaml:"timeout"   validate:"gte=0"`
	Headers   map[string]string `yaml:"headers"`
}

// FailuresConfig selects the failure journal.
type FailuresConfig struct {
	Backend    string `yaml:"backend"     validate:"oneof=none memory redis postgres"`
	MaxRecords int64  `yaml:"max_records" validate:"gte=0"` // redis only, 0 = unbounded
}

// ServerConfig holds the health and metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"` // 0 disables the server
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}
