// Package medusa is a typed client for a Medusa-compatible commerce backend.
// It covers the storefront surface only: regions, products, categories,
// carts, and customers. All domain state lives on the backend; this client
// never caches.
package medusa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httpclient"
)

const publishableKeyHeader = "x-publishable-api-key"

// Doer executes HTTP requests. Satisfied by httpclient.Client and
// httpclient.CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("medusa: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps backend statuses onto the shared sentinel errors so callers can
// use errors.Is without knowing about APIError.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusConflict:
		return apperrors.ErrConflict
	default:
		return apperrors.ErrServiceUnavail
	}
}

// Config holds client configuration.
type Config struct {
	BaseURL        string
	PublishableKey string
}

// Client calls the commerce backend's store API.
type Client struct {
	baseURL        string
	publishableKey string
	doer           Doer
	logger         *slog.Logger
}

// New creates a client with the given transport.
func New(cfg Config, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		publishableKey: cfg.PublishableKey,
		doer:           doer,
		logger:         logger,
	}
}

// IsCircuitOpen reports whether the error means the backend breaker rejected
// the call without attempting it.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, httpclient.ErrCircuitOpen)
}

// do executes a request and decodes the JSON response body into out (when
// non-nil). token, when non-empty, is sent as a bearer credential for
// customer-scoped endpoints.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.publishableKey != "" {
		req.Header.Set(publishableKeyHeader, c.publishableKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if err == nil && len(data) > 0 {
		var payload struct {
			Code    string `json:"code"`
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil {
			if payload.Code != "" {
				apiErr.Code = payload.Code
			} else if payload.Type != "" {
				apiErr.Code = payload.Type
			}
			if payload.Message != "" {
				apiErr.Message = payload.Message
			}
		}
	}

	return apiErr
}
