package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/core/ports"
)

var absoluteURLRegex = regexp.MustCompile(`(?i)^https?://`)

// Client is the shared HTTP layer under every API surface. It attaches
// the bearer token from the token store when one is present and clears
// the store unconditionally on any 401 response.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     ports.TokenStore
	log        zerolog.Logger
}

// NewClient creates the base API client.
func NewClient(baseURL string, tokens ports.TokenStore, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		log:    baseLogger.With().Str("component", "api_client").Logger(),
	}
}

// buildURL joins a path onto the base URL. Absolute URLs pass through
// untouched so surfaces with their own endpoint (identity validation,
// analytics) can reuse the client.
func (c *Client) buildURL(path string) string {
	if absoluteURLRegex.MatchString(path) {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// doJSON sends a JSON request (body may be nil) and decodes a 2xx
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

// do executes a request with the standard headers, error mapping and
// 401 handling.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tokens := c.tokens.Get(); tokens != nil && tokens.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Session expiry is global: clear the slot no matter which
		// call observed the 401.
		c.tokens.Clear()
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp.StatusCode, payload)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("could not decode response: %w", err)
		}
	}
	return nil
}

// apiError builds an APIError from a non-2xx body. A JSON body with a
// "message" field supplies the message; otherwise the raw text is kept
// as payload only.
func (c *Client) apiError(status int, payload []byte) *APIError {
	apiErr := &APIError{Status: status}

	if len(payload) == 0 {
		return apiErr
	}

	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err == nil {
		apiErr.Payload = parsed
		if msg, ok := parsed["message"].(string); ok {
			apiErr.Message = msg
		}
		return apiErr
	}

	apiErr.Payload = string(payload)
	return apiErr
}
