package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProcessor_Success(t *testing.T) {
	var got ingestRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("expected auth header, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	p := NewHTTPProcessor(server.URL, 5*time.Second, map[string]string{"Authorization": "Bearer secret"})
	if err := p.Process(context.Background(), "https://docs.example/page"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.URL != "https://docs.example/page" {
		t.Errorf("expected url in body, got %q", got.URL)
	}
}

func TestHTTPProcessor_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"gateway timeout", http.StatusGatewayTimeout, "", KindTimeout},
		{"request timeout", http.StatusRequestTimeout, "", KindTimeout},
		{"timeout in json error", http.StatusInternalServerError, `{"error":"Request timed out"}`, KindTimeout},
		{"server error", http.StatusInternalServerError, "boom", KindOther},
		{"bad request", http.StatusBadRequest, `{"error":"invalid url"}`, KindOther},
		{"timeout parameter rejected", http.StatusUnprocessableEntity, `{"error":"invalid timeout parameter"}`, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewHTTPProcessor(server.URL, 5*time.Second, nil)
			err := p.Process(context.Background(), "u")

			var ingestErr *Error
			if !errors.As(err, &ingestErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if ingestErr.Kind != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, ingestErr.Kind, err)
			}
		})
	}
}

func TestHTTPProcessor_ClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p := NewHTTPProcessor(server.URL, 50*time.Millisecond, nil)
	err := p.Process(context.Background(), "u")
	if Classify(err) != KindTimeout {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestHTTPProcessor_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewHTTPProcessor(url, time.Second, nil)
	err := p.Process(context.Background(), "u")
	if Classify(err) != KindOther {
		t.Errorf("connection refused should not be a timeout, got %v", err)
	}
}
