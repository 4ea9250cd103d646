// Package mfapi provides a client for the mfapi.in mutual fund NAV API
package mfapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
)

const (
	DefaultBaseURL   = "https://api.mfapi.in"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MFAPIClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new mfapi.in client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mfapi error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", reqURL).Msg("mfapi request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.UpstreamError{
			Msg:     "NAV provider request failed",
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// Re-categorize provider failures at the fetch boundary so callers
	// only ever see the shared error taxonomy. APIError survives as the
	// cause for logs.
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &models.UpstreamError{
			Msg: fmt.Sprintf("NAV provider returned status %d", resp.StatusCode),
			Err: &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(body),
				Endpoint:   path,
			},
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

// GetScheme retrieves metadata and the full NAV history for one scheme.
// The provider returns NAV rows newest first with DD-MM-YYYY dates.
func (c *Client) GetScheme(ctx context.Context, code string) (*models.Scheme, error) {
	path := fmt.Sprintf("/mf/%s", code)

	var scheme models.Scheme
	if err := c.get(ctx, path, &scheme); err != nil {
		return nil, err
	}

	// The provider answers 200 with an empty object for unknown codes.
	if scheme.Meta.SchemeName == "" && len(scheme.Data) == 0 {
		return nil, models.NewDataUnavailableError("scheme %s not found", code)
	}

	scheme.FetchedAt = time.Now()

	c.logger.Debug().
		Str("code", code).
		Int("rows", len(scheme.Data)).
		Msg("Scheme fetched")

	return &scheme, nil
}

// ListSchemes retrieves the provider's full scheme directory.
func (c *Client) ListSchemes(ctx context.Context) ([]models.SchemeListEntry, error) {
	var entries []models.SchemeListEntry
	if err := c.get(ctx, "/mf", &entries); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("schemes", len(entries)).Msg("Scheme directory fetched")

	return entries, nil
}

// Compile-time check
var _ interfaces.MFAPIClient = (*Client)(nil)
