package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/salgue441/jobrunner/pkg/errors"
)

// HTTPClient talks to the session gateway over HTTP.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient creates an HTTPClient bound to baseURL, with an optional
// bearer token and a bounded request timeout (spec §5: network calls to
// the session client should have their own bounded timeout).
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode gateway request").
				WithCode(errors.CodeSerialization)
		}

		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build gateway request").
			WithCode(errors.CodeInternal)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "gateway request failed").WithCode(errors.CodeNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Newf("gateway returned status %d", resp.StatusCode).
			WithCode(errors.CodeNetwork)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode gateway response").
			WithCode(errors.CodeSerialization)
	}

	return nil
}

// SpawnSession starts a new session for prompt.
func (c *HTTPClient) SpawnSession(ctx context.Context, prompt string, opts SpawnOptions) (SpawnResult, error) {
	var out SpawnResult
	err := c.do(ctx, http.MethodPost, "/sessions", map[string]any{
		"prompt":            prompt,
		"label":             opts.Label,
		"thinking":          opts.Thinking,
		"runTimeoutSeconds": opts.RunTimeoutSeconds,
	}, &out)
	return out, err
}

// IsSessionComplete reports whether sessionKey has finished.
func (c *HTTPClient) IsSessionComplete(ctx context.Context, sessionKey string) (bool, error) {
	var out struct {
		Complete bool `json:"complete"`
	}

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sessions/%s/complete", sessionKey), nil, &out)
	return out.Complete, err
}

// GetSessionInfo retrieves token accounting for a completed session. A
// nil result (no error) means the gateway had no info to report.
func (c *HTTPClient) GetSessionInfo(ctx context.Context, sessionKey string) (*SessionInfo, error) {
	var out *SessionInfo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sessions/%s/info", sessionKey), nil, &out)
	return out, err
}
