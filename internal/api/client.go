// Package api is the VoiceVista REST client. It attaches the bearer token,
// parses JSON and blob responses, and normalizes failures into RequestError
// and NetworkError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000"

// Client talks to the VoiceVista backend.
type Client struct {
	baseURL     string
	uploadsPath string
	http        *http.Client
	logger      zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUploadsPath sets the path avatar references are resolved under.
func WithUploadsPath(path string) Option {
	return func(c *Client) {
		path = strings.TrimRight(strings.TrimSpace(path), "/")
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.uploadsPath = path
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     baseURL,
		uploadsPath: "/uploads",
		http:        &http.Client{},
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken arms (or, with "", disarms) the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AvatarURL resolves an avatar reference. Absolute http(s) URLs are returned
// unchanged; anything else is served from the uploads path.
func (c *Client) AvatarURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + c.uploadsPath + "/" + strings.TrimLeft(ref, "/")
}

// doJSON sends a JSON request and decodes the JSON response into out (which
// may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// newRequest builds a request with the bearer and request-id headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// send performs req and converts failures. On success the caller owns the
// response body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	reqID := req.Header.Get("X-Request-ID")
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).
			Str("request_id", reqID).Msg("request failed")
		return nil, &NetworkError{Err: err}
	}

	c.logger.Debug().Str("method", req.Method).Str("path", req.URL.Path).
		Int("status", resp.StatusCode).Str("request_id", reqID).Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readRequestError(resp)
	}
	return resp, nil
}

func readRequestError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: unknownErrorMessage}
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: unknownErrorMessage}
	}
	if body.Message == "" {
		return &RequestError{Status: resp.StatusCode, Message: httpStatusMessage(resp.StatusCode)}
	}
	return &RequestError{Status: resp.StatusCode, Message: body.Message}
}

// errMissingID guards id-addressed calls.
var errMissingID = errors.New("transcription id is required")
