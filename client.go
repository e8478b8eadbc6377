package getmotion

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
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.getmotion.io"

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
)

// Client is a GetMotion API client. All configuration happens at
// construction time; a Client is safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	longClient  *http.Client
	logger      *slog.Logger
	maxRetries  int
	baseBackoff time.Duration
	timeout     time.Duration
	validate    *validator.Validate

	// Jobs is the entry point for creating and looking up jobs.
	Jobs *JobsService
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Trailing slashes are trimmed.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout for API calls. Storyboard chat
// and presigned uploads are exempt; bound those with a context instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request traces and wait progress.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.baseBackoff = d
	}
}

// NewClient creates a new GetMotion API client. If apiKey is empty, it is
// read from the environment variable GETMOTION_API_KEY.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      slog.Default(),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	// If the key was not given, try the environment variable
	if c.apiKey == "" {
		c.apiKey = os.Getenv("GETMOTION_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	// Chat and presigned uploads run longer than any sane request timeout;
	// they share the transport but are bounded only by the caller's context.
	long := *c.httpClient
	long.Timeout = 0
	c.longClient = &long

	c.validate = validator.New()
	if err := c.validate.RegisterValidation("jobtitle", validJobTitle); err != nil {
		return nil, fmt.Errorf("getmotion: register validation: %w", err)
	}

	c.Jobs = &JobsService{client: c}

	return c, nil
}

// url joins the base URL with a path and optional query string.
func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON marshals payload, performs an authenticated request with retry and
// decodes the response into result. Either may be nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, result interface{}) error {
	return c.send(ctx, c.httpClient, method, path, query, payload, result)
}

// doJSONLong is doJSON on the unbounded client, for endpoints whose latency
// is dominated by an LLM turn.
func (c *Client) doJSONLong(ctx context.Context, method, path string, query url.Values, payload, result interface{}) error {
	return c.send(ctx, c.longClient, method, path, query, payload, result)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, query url.Values, payload, result interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("getmotion: marshal request: %w", err)
		}
	}
	return c.doRequestWithRetry(ctx, hc, method, c.url(path, query), body, result)
}

// doRequestWithRetry performs an HTTP request with exponential backoff retry.
func (c *Client) doRequestWithRetry(ctx context.Context, hc *http.Client, method, url string, body []byte, result interface{}) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("getmotion: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}

		err := c.doRequest(ctx, hc, method, url, body, result)
		if err == nil {
			return nil
		}

		// Check if error is retryable
		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("getmotion: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request.
func (c *Client) doRequest(ctx context.Context, hc *http.Client, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("getmotion: create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("url", url),
	)

	resp, err := hc.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("getmotion: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("getmotion: read response: %w", err)}
	}

	c.logger.Debug("api response",
		slog.Int("status", resp.StatusCode),
		slog.String("url", url),
	)

	// Handle non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, respBody)
		// 5xx and 429 are retryable, everything else is not
		if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			return &retryableError{err: apiErr}
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("getmotion: unmarshal response: %w", err)
		}
	}

	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
