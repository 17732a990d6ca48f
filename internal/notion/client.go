package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// Retry and backoff constants.
const (
	maxRetries     = 5
	baseBackoff    = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterFraction = 0.25
)

// DefaultBaseURL is the production Notion API endpoint. No trailing slash.
const DefaultBaseURL = "https://api.notion.com/v1"

// DefaultNotionVersion is the API version sent in the Notion-Version header
// when the config does not override it.
const DefaultNotionVersion = "2022-06-28"

// TokenSource provides integration bearer tokens. Defined at the consumer
// (notion package) per Go convention "accept interfaces, return structs".
// Notion internal integration tokens are static, so implementations are
// usually a thin wrapper around a config value.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource returning a fixed integration token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Client is an HTTP client for the Notion API.
// It handles request construction, authentication, versioning headers,
// retry with exponential backoff, and error classification.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	token         TokenSource
	notionVersion string
	userAgent     string
	logger        *slog.Logger

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Notion API client.
// baseURL is typically DefaultBaseURL; tests point it at an httptest server.
// An empty notionVersion falls back to DefaultNotionVersion.
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, notionVersion, userAgent string, logger *slog.Logger) *Client {
	if token == nil {
		panic("notion: NewClient requires a TokenSource")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if notionVersion == "" {
		notionVersion = DefaultNotionVersion
	}

	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		token:         token,
		notionVersion: notionVersion,
		userAgent:     userAgent,
		logger:        logger,
		sleepFunc:     timeSleep,
	}
}

// Do executes an HTTP request against the Notion API.
// The path is appended to the client's base URL.
// For non-nil bodies, Content-Type is set to application/json; bodies must
// be io.ReadSeeker so they can be rewound for retry attempts.
// The caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string, body io.ReadSeeker) (*http.Response, error) {
	url := c.baseURL + path

	var attempt int
	for {
		if body != nil {
			if err := rewindBody(body); err != nil {
				return nil, err
			}
		}

		var reqBody io.Reader
		if body != nil {
			reqBody = body
		}

		resp, err := c.doOnce(ctx, method, url, reqBody)
		if err != nil {
			// Context cancellation is not retryable.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("notion: request canceled: %w", ctx.Err())
			}

			// Network errors are retryable.
			if attempt < maxRetries {
				backoff := c.calcBackoff(attempt)
				c.logger.Warn("retrying after network error",
					slog.String("method", method),
					slog.String("path", path),
					slog.Int("attempt", attempt+1),
					slog.Duration("backoff", backoff),
					slog.String("error", err.Error()),
				)

				if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
					return nil, fmt.Errorf("notion: request canceled: %w", sleepErr)
				}

				attempt++

				continue
			}

			return nil, fmt.Errorf("notion: %s %s failed after %d retries: %w", method, path, maxRetries, err)
		}

		// 2xx is success.
		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)

			return resp, nil
		}

		// Read and close body for error responses.
		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		if isRetryable(resp.StatusCode) && attempt < maxRetries {
			backoff := c.retryBackoff(resp, attempt)
			c.logger.Warn("retrying after HTTP error",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)

			if err := c.sleepFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("notion: request canceled: %w", err)
			}

			attempt++

			continue
		}

		apiErr := newAPIError(resp.StatusCode, errBody)

		if attempt > 0 {
			c.logger.Error("request failed after retries",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempts", attempt+1),
			)
		}

		return nil, apiErr
	}
}

// errorBody mirrors the Notion error response JSON.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newAPIError builds an APIError from a non-2xx response, decoding the
// Notion error envelope when the body parses as one.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    string(body),
		Err:        classifyStatus(status),
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Code != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
	}

	return apiErr
}

// doOnce executes a single HTTP request (no retry).
func (c *Client) doOnce(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Notion-Version", c.notionVersion)

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// rewindBody seeks a request body back to the start so a retry attempt
// sends the full payload again.
func rewindBody(body io.Seeker) error {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("notion: rewinding request body for retry: %w", err)
	}

	return nil
}

// retryBackoff returns the backoff duration for a retryable response.
// For 429 responses with a Retry-After header, that value is used.
func (c *Client) retryBackoff(resp *http.Response, attempt int) time.Duration {
	if resp.StatusCode == http.StatusTooManyRequests {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}

	return c.calcBackoff(attempt)
}

// calcBackoff computes exponential backoff with ±25% jitter.
func (c *Client) calcBackoff(attempt int) time.Duration {
	backoff := float64(baseBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	// Apply ±25% jitter.
	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto rand
	backoff += jitter

	return time.Duration(backoff)
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
