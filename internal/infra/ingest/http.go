package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/docqueue/internal/metrics"
)

const maxErrorBody = 4 << 10

// HTTPProcessor submits items to an ingestion endpoint as JSON over HTTP.
type HTTPProcessor struct {
	endpoint   string
	httpClient *http.Client
	headers    map[string]string
}

// NewHTTPProcessor creates a processor posting to endpoint. timeout bounds a
// single ingestion call; exceeding it is reported as a timeout failure.
func NewHTTPProcessor(endpoint string, timeout time.Duration, headers map[string]string) *HTTPProcessor {
	return &HTTPProcessor{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		headers: headers,
	}
}

type ingestRequest struct {
	URL string `json:"url"`
}

type ingestResponse struct {
	Error string `json:"error"`
}

// Process posts {"url": item} to the endpoint.
func (p *HTTPProcessor) Process(ctx context.Context, item string) error {
	start := time.Now()
	err := p.process(ctx, item)
	metrics.ProcessLatency.WithLabelValues("http", outcome(err)).Observe(time.Since(start).Seconds())
	return err
}

func (p *HTTPProcessor) process(ctx context.Context, item string) error {
	body, err := json.Marshal(ingestRequest{URL: item})
	if err != nil {
		return Other(item, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Other(item, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Other(item, err)
		}
		return &Error{Kind: Classify(err), Item: item, Err: fmt.Errorf("ingest call: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := string(data)
	var parsed ingestResponse
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		msg = parsed.Error
	}
	callErr := fmt.Errorf("http %d: %s", resp.StatusCode, msg)

	switch {
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		return Timeout(item, callErr)
	case IsTimeoutMessage(msg):
		return Timeout(item, callErr)
	default:
		return Other(item, callErr)
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return Classify(err).String()
}
