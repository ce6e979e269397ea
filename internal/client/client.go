// Package client talks JSON-over-HTTP to the remote knowledge-resolution
// API: one endpoint decodes a coordinate, the other walks the graph from a
// starting coordinate. Calls are single blocking round trips with no retry;
// failed calls surface immediately and the interactive caller decides what
// to do.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dualsubstrate/web4r-go/internal/metrics"
	"github.com/dualsubstrate/web4r-go/internal/models"
	"github.com/dualsubstrate/web4r-go/internal/normalize"
)

// DefaultBaseURL is the production resolver address, overridable via
// configuration.
const DefaultBaseURL = "https://dualsubstrate-commercial.fly.dev"

// DefaultCoherence is the coherence threshold sent with walk requests when
// the caller does not set one.
const DefaultCoherence = 0.8

const (
	decodeEndpoint = "/web4/decode"
	walkEndpoint   = "/api/chat/coord/walk"
)

// Config holds the injected transport configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues POST requests against the resolver API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	collector  *metrics.Collector
}

// New creates a client. A nil logger falls back to slog.Default; a nil
// collector disables timing collection.
func New(cfg Config, logger *slog.Logger, collector *metrics.Collector) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		collector:  collector,
	}
}

// response is one parsed HTTP exchange. The payload is kept alongside the
// raw text because backend error details fall back to the raw body.
type response struct {
	statusCode int
	payload    map[string]any
	rawText    string
}

func (r *response) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// postJSON sends one JSON POST and parses the JSON response body. Network
// failures, timeouts and non-JSON bodies become a TransportError; HTTP error
// statuses do not, the caller inspects those.
func (c *Client) postJSON(ctx context.Context, op, endpoint string, body any) (*response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if c.collector != nil {
		c.collector.Record(op, elapsed)
	}
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("read response: %w", err)}
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("non-JSON response body: %w", err)}
	}

	c.logger.Debug("api call",
		"endpoint", endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return &response{statusCode: resp.StatusCode, payload: payload, rawText: string(raw)}, nil
}

// Decode resolves a coordinate and normalizes the response. Success is
// inferred when the HTTP status is OK and either the body carries a success
// status or the payload looks like a coordinate record; everything else is a
// BackendError carrying the backend's detail.
func (c *Client) Decode(ctx context.Context, coordinate string) (models.DecodeResult, error) {
	resp, err := c.postJSON(ctx, metrics.OpDecode, decodeEndpoint, map[string]any{"coordinate": coordinate})
	if err != nil {
		return models.DecodeResult{}, err
	}

	payload := unwrapBody(resp.payload)
	if resp.ok() && (statusField(resp.payload) == models.StatusSuccess || looksLikeCoordRecord(payload)) {
		return normalize.Normalize(payload, coordinate), nil
	}

	return models.DecodeResult{}, &BackendError{
		Endpoint:   decodeEndpoint,
		StatusCode: resp.statusCode,
		Detail:     errorDetail(payload, resp.rawText),
	}
}

// WalkRequest is the walk endpoint's request body. The walk engine may
// apply randomized step selection, so identical requests are not assumed
// idempotent and are never retried or cached.
type WalkRequest struct {
	StartCoord       string  `json:"start_coord" validate:"required"`
	MaxSteps         int     `json:"max_steps" validate:"gte=1,lte=25"`
	CurrentCoherence float64 `json:"current_coherence"`
	Namespace        string  `json:"namespace,omitempty"`
}

// Walk issues one walk request and returns the raw response body. A body
// with an error status becomes a BackendError even on HTTP 200.
func (c *Client) Walk(ctx context.Context, req WalkRequest) (map[string]any, error) {
	if req.CurrentCoherence == 0 {
		req.CurrentCoherence = DefaultCoherence
	}

	resp, err := c.postJSON(ctx, metrics.OpWalk, walkEndpoint, req)
	if err != nil {
		return nil, err
	}

	if !resp.ok() || statusField(resp.payload) == models.StatusError {
		return nil, &BackendError{
			Endpoint:   walkEndpoint,
			StatusCode: resp.statusCode,
			Detail:     errorDetail(unwrapBody(resp.payload), resp.rawText),
		}
	}

	return resp.payload, nil
}

// unwrapBody strips the data/result envelope some backend versions wrap
// around the payload.
func unwrapBody(body map[string]any) map[string]any {
	for _, key := range []string{"data", "result"} {
		if inner, ok := body[key].(map[string]any); ok {
			return inner
		}
	}
	return body
}

func statusField(body map[string]any) string {
	s, _ := body["status"].(string)
	return s
}

// looksLikeCoordRecord reports whether the payload carries any of the
// coordinate identity fields a successful decode is known to include.
func looksLikeCoordRecord(payload map[string]any) bool {
	for _, key := range []string{"coord", "coordinate", "canonical_coord"} {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}

// errorDetail reads the backend's error message: detail, then error, then
// the raw response text.
func errorDetail(payload map[string]any, rawText string) string {
	for _, key := range []string{"detail", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return rawText
}
