package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiPrefix                = "/api/v1"
	defaultBaseURL           = "http://localhost:8000"
	defaultRequestTimeout    = 60 * time.Second
	defaultReadinessTimeout  = 10 * time.Second
	defaultReadinessInterval = 500 * time.Millisecond
)

// Client is the chroma client entry point.
type Client struct {
	baseURL    string
	hc         *http.Client
	allowReset bool
	tel        *telemetry
}

// New creates a Client and waits for the server to answer its heartbeat.
// The provided context bounds the initial readiness check together with
// the readiness timeout option.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:          defaultBaseURL,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultRequestTimeout}
	}

	tel, err := newTelemetry(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		hc:         hc,
		allowReset: cfg.allowReset,
		tel:        tel,
	}

	if err := c.waitForReady(ctx, cfg.readinessTimeout); err != nil {
		return nil, err
	}
	return c, nil
}

// waitForReady polls the heartbeat endpoint until it answers or the
// timeout elapses.
func (c *Client) waitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	ticker := time.NewTicker(defaultReadinessInterval)
	defer ticker.Stop()

	for {
		if lastErr = c.Heartbeat(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v (last error: %v)", ErrNotReady, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}

// Heartbeat checks server liveness.
func (c *Client) Heartbeat(ctx context.Context) error {
	var out struct {
		Heartbeat int64 `json:"nanosecond heartbeat"`
	}
	if err := c.do(ctx, "heartbeat", http.MethodGet, "/heartbeat", nil, &out); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v string
	if err := c.do(ctx, "version", http.MethodGet, "/version", nil, &v); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return strings.Trim(v, `"`), nil
}

// Reset wipes all server-side data. It refuses to run unless the client
// was built with WithAllowReset; the server must also permit resets.
func (c *Client) Reset(ctx context.Context) error {
	if !c.allowReset {
		return ErrResetDisabled
	}
	if err := c.do(ctx, "reset", http.MethodPost, "/reset", nil, nil); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Collections returns the collection management service.
func (c *Client) Collections() *CollectionService {
	return &CollectionService{c: c}
}

// Documents returns the document service for a given collection.
func (c *Client) Documents(col Collection) *DocumentService {
	return &DocumentService{c: c, col: col}
}

// Search returns the query service for a given collection.
func (c *Client) Search(col Collection) *SearchService {
	return &SearchService{c: c, col: col}
}

// do executes one JSON round trip against the server and records it under
// the given operation name. body and out may be nil. Non-2xx responses
// decode into *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	code := 0
	defer func() { c.tel.roundTrip(op, method, code, time.Since(start), err) }()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	code = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts the server error message. Chroma reports either
// {"error": "..."} or {"detail": "..."} depending on the endpoint.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case len(payload.Detail) > 0:
			msg = strings.Trim(string(payload.Detail), `"`)
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
