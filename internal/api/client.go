package api

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
)

// Client is the authenticated request gateway. It holds no session state:
// the bearer token travels with each request, so the gateway stays a pure
// request/response boundary.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// New creates a gateway for the given normalized base URL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string
	Token  string
	Body   any
	Header http.Header
}

// Do issues a single HTTP attempt. A JSON content type and, when a token is
// present, a bearer Authorization header are merged in; caller-supplied
// headers win on conflict. Non-2xx responses become an *APIError. A 204
// response, or a 2xx body that fails to parse as JSON, resolves to an empty
// result without error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	requestID := uuid.NewString()
	c.logger.Debug("api request", "id", requestID, "method", req.Method, "path", req.Path)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.logger.Debug("api transport error", "id", requestID, "error", err)
		return fmt.Errorf("request %s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("api response", "id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Tolerate malformed success bodies; the caller keeps a zero value.
		c.logger.Debug("api response parse failed", "id", requestID, "error", err)
	}
	return nil
}
