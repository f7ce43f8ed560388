package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the conversion service's job API root.
const DefaultBaseURL = "https://api.cloudconvert.com/v2"

// Timeouts and polling bounds for the conversion protocol. Each network call
// carries its own context deadline; exceeding a polling bound is a hard
// failure, never an open-ended wait.
const (
	apiTimeout      = 10 * time.Second
	uploadTimeout   = 30 * time.Second
	downloadTimeout = 30 * time.Second

	importPollAttempts = 10
	importPollInterval = 500 * time.Millisecond
	jobPollAttempts    = 60
	jobPollInterval    = 1 * time.Second
)

// Options configures a conversion client. Zero values fall back to the
// production defaults; tests shrink the intervals to keep polling loops fast.
type Options struct {
	BaseURL            string
	HTTPClient         *http.Client
	ImportPollInterval time.Duration
	JobPollInterval    time.Duration
	Logger             *zap.Logger
}

// Client talks to the external DOCX-to-PDF conversion service. The zero
// credential is a supported "feature disabled" state: Convert fails
// immediately without a network call.
type Client struct {
	apiKey             string
	baseURL            string
	httpClient         *http.Client
	importPollInterval time.Duration
	jobPollInterval    time.Duration
	logger             *zap.Logger
}

// NewClient builds a conversion client for the given credential.
func NewClient(apiKey string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	c := &Client{
		apiKey:             apiKey,
		baseURL:            opts.BaseURL,
		httpClient:         opts.HTTPClient,
		importPollInterval: opts.ImportPollInterval,
		jobPollInterval:    opts.JobPollInterval,
		logger:             opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.importPollInterval == 0 {
		c.importPollInterval = importPollInterval
	}
	if c.jobPollInterval == 0 {
		c.jobPollInterval = jobPollInterval
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Enabled reports whether a conversion credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// doJSON performs one authenticated API call with its own deadline and
// decodes the JSON response into out. The timeout context is always released.
func (c *Client) doJSON(ctx context.Context, method, url string, body any, timeout time.Duration, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(callCtx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// sleep waits for the polling interval, returning early when the request
// context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
