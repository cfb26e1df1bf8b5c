package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	// Setup env var
	os.Setenv("TEST_INGEST_URL", "http://localhost:9000/ingest")
	defer os.Unsetenv("TEST_INGEST_URL")

	// Create temp config file
	configContent := `
ingest:
  endpoint: ${TEST_INGEST_URL}
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	// Load config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ingest.Endpoint != "http://localhost:9000/ingest" {
		t.Errorf("Expected endpoint http://localhost:9000/ingest, got %s", cfg.Ingest.Endpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("ingest:\n  endpoint: http://x\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Queue.Backend != "file" || cfg.Queue.Path != "queue.txt" || cfg.Queue.Name != "default" {
		t.Errorf("unexpected queue defaults: %+v", cfg.Queue)
	}
	if cfg.Retry.Base != time.Second || cfg.Retry.Step != time.Second || cfg.Retry.Max != 10*time.Second {
		t.Errorf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.Ingest.Transport != "http" || cfg.Ingest.Timeout != time.Minute {
		t.Errorf("unexpected ingest defaults: %+v", cfg.Ingest)
	}
	if cfg.Failures.Backend != "none" {
		t.Errorf("expected no journal by default, got %s", cfg.Failures.Backend)
	}
	if cfg.Server.Port != 0 {
		t.Errorf("expected server disabled by default, got port %d", cfg.Server.Port)
	}
}

func TestParse_Durations(t *testing.T) {
	cfg, err := Parse([]byte(`
retry:
  base: 500ms
  step: 250ms
  max: 3s
ingest:
  transport: grpc
  endpoint: localhost:50051
  timeout: 2m
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Retry.Base != 500*time.Millisecond || cfg.Retry.Step != 250*time.Millisecond || cfg.Retry.Max != 3*time.Second {
		t.Errorf("unexpected retry config: %+v", cfg.Retry)
	}
	if cfg.Ingest.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %v", cfg.Ingest.Timeout)
	}
}

func TestValidateIngest(t *testing.T) {
	cfg, err := Parse([]byte("queue:\n  path: q.txt\n"))
	if err != nil {
		t.Fatalf("config without an endpoint should load: %v", err)
	}
	if err := cfg.ValidateIngest(); err == nil || !strings.Contains(err.Error(), "ingest.endpoint") {
		t.Errorf("expected ingest.endpoint error, got %v", err)
	}

	cfg.Ingest.Endpoint = "http://x"
	if err := cfg.ValidateIngest(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown transport", "ingest:\n  endpoint: x\n  transport: smtp\n", "Transport"},
		{"max below base", "ingest:\n  endpoint: x\nretry:\n  base: 5s\n  max: 2s\n", "Max"},
		{"redis queue without url", "ingest:\n  endpoint: x\nqueue:\n  backend: redis\n", "redis.url"},
		{"postgres journal without url", "ingest:\n  endpoint: x\nfailures:\n  backend: postgres\n", "database.url"},
		{"bad yaml", "ingest: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
