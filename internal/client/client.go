// Package client wraps the FindMySpace REST API. Every call is a single attempt:
// nothing is retried or cached, and the caller decides what to show on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"

	"go.uber.org/zap"
)

var (
	// ErrNotAuthenticated is returned for a missing or rejected session (401/403).
	ErrNotAuthenticated = apperrors.ErrUnauthenticated
	// ErrInvalid is returned when the server rejected the request (other 4xx).
	ErrInvalid = errors.New("invalid request")
	// ErrServerError is returned for 5xx responses.
	ErrServerError = errors.New("server error")
	// ErrNetwork is returned when the server could not be reached.
	ErrNetwork = apperrors.ErrNetwork
)

// Error carries the HTTP status and server message of a failed call.
type Error struct {
	Status  int
	Code    string
	Message string

	kind   error
	detail error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %s", e.kind, e.Message)
	}
	return fmt.Sprintf("%v (%d %s): %s", e.kind, e.Status, e.Code, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.detail != nil {
		return []error{e.kind, e.detail}
	}
	return []error{e.kind}
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) { c.token = token }

// do sends one request and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Message: err.Error(), kind: ErrNetwork, detail: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: err.Error(), kind: ErrNetwork, detail: err}
	}
	var env entities.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &Error{Status: resp.StatusCode, Message: "malformed response body", kind: ErrServerError, detail: err}
		}
	}
	c.logger.Debug("api call", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 300 || (len(raw) > 0 && !env.Success) {
		return statusError(resp.StatusCode, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "malformed response data", kind: ErrServerError, detail: err}
	}
	return nil
}

func statusError(status int, env entities.Envelope) *Error {
	e := &Error{Status: status, Code: env.Code, Message: env.Message}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.kind = ErrNotAuthenticated
		if status == http.StatusForbidden {
			e.detail = apperrors.ErrForbidden
		}
	case status >= 500:
		e.kind = ErrServerError
	default:
		e.kind = ErrInvalid
		switch {
		case status == http.StatusNotFound:
			e.detail = apperrors.ErrNotFound
		case env.Code == "NO_COORDINATES":
			e.detail = apperrors.ErrNoCoordinates
		case env.Code == "VALIDATION_ERROR":
			e.detail = apperrors.ErrValidation
		case status == http.StatusConflict:
			e.detail = apperrors.ErrConflict
		}
	}
	return e
}
