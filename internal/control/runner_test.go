package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/docqueue/internal/core/config"
	"github.com/vietddude/docqueue/internal/health"
)

// ingestServer fails URLs containing "bad" and accepts everything else.
func ingestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.Contains(body.URL, "bad") {
			http.Error(w, `{"error":"unsupported document"}`, http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, yaml string) *config.AppConfig {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func TestRunner_FileQueue(t *testing.T) {
	srv := ingestServer(t)
	queuePath := filepath.Join(t.TempDir(), "queue.txt")
	require.NoError(t, os.WriteFile(queuePath, []byte("https://ok.example/1\nhttps://bad.example\n\nhttps://ok.example/2\n"), 0o644))

	cfg := testConfig(t, `
queue:
  path: `+queuePath+`
ingest:
  endpoint: `+srv.URL+`
  timeout: 5s
failures:
  backend: memory
`)

	ctx := context.Background()
	r, err := NewRunner(ctx, cfg)
	require.NoError(t, err)
	defer r.Close(ctx)

	report := r.RunQueue(ctx)
	assert.False(t, report.IsError)
	assert.Equal(t, "Queue processing complete.\nProcessed: 2 URLs\nFailed: 1 URLs\n\nFailed URLs:\nhttps://bad.example", report.Text)

	data, err := os.ReadFile(queuePath)
	require.NoError(t, err)
	assert.Empty(t, data)

	failures, err := r.Journal().List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "https://bad.example", failures[0].Item)
	assert.Equal(t, health.StatusCompleted, r.monitor.Snapshot().Status)
}

func TestRunner_MissingQueueFile(t *testing.T) {
	srv := ingestServer(t)
	cfg := testConfig(t, `
queue:
  path: `+filepath.Join(t.TempDir(), "queue.txt")+`
ingest:
  endpoint: `+srv.URL+`
`)

	ctx := context.Background()
	r, err := NewRunner(ctx, cfg)
	require.NoError(t, err)
	defer r.Close(ctx)

	assert.Equal(t, "Queue is empty (queue file does not exist)", r.RunQueue(ctx).Text)
	assert.Nil(t, r.Journal())
}

func TestRunner_RedisQueue(t *testing.T) {
	srv := ingestServer(t)
	mr := miniredis.RunT(t)

	cfg := testConfig(t, `
queue:
  backend: redis
  name: docs
ingest:
  endpoint: `+srv.URL+`
failures:
  backend: redis
redis:
  url: redis://`+mr.Addr()+`
`)

	ctx := context.Background()
	r, err := NewRunner(ctx, cfg)
	require.NoError(t, err)
	defer r.Close(ctx)

	require.NoError(t, r.Store().Append(ctx, "https://ok.example", "https://bad.example"))

	report := r.RunQueue(ctx)
	assert.Contains(t, report.Text, "Processed: 1 URLs\nFailed: 1 URLs")

	n, err := r.Journal().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunner_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t, `
queue:
  backend: redis
ingest:
  endpoint: http://localhost:1
redis:
  url: redis://127.0.0.1:1
`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := NewRunner(ctx, cfg)
	assert.Error(t, err)
}
