package stitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mmcdole/stitchsync/internal/domain"
)

const (
	// APIKeyHeader carries the static API key on listing requests
	APIKeyHeader = "X-Goog-Api-Key"

	defaultTimeout = 60 * time.Second
	maxErrorBody   = 512
)

// Client implements domain.ScreenSource for the Stitch API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Stitch API client
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListScreens returns the screens of a project.
// The response status is not checked: whatever body comes back must parse
// as JSON, and a body without a screens key means the project has none.
// Only the first page is read.
func (c *Client) ListScreens(ctx context.Context, projectID string) ([]domain.Screen, error) {
	reqURL := fmt.Sprintf("%s/v1/projects/%s/screens", c.baseURL, url.PathEscape(projectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)

	c.logger.Debug("stitch request", "method", http.MethodGet, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("stitch listing request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrListingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrListingUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("stitch listing returned non-success status",
			"status", resp.StatusCode,
			"body", truncate(body, maxErrorBody),
		)
	}

	if !json.Valid(body) {
		c.logger.Error("stitch listing is not JSON", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w (status %d): %s", domain.ErrInvalidListing, resp.StatusCode, truncate(body, maxErrorBody))
	}

	// Only an object can carry a screens key; any other JSON value lists nothing
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		c.logger.Warn("stitch listing is not a JSON object", "status", resp.StatusCode)
		return []domain.Screen{}, nil
	}

	var listing ListScreensResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		c.logger.Error("stitch listing has unexpected shape", "status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("%w (status %d): unexpected shape: %w", domain.ErrInvalidListing, resp.StatusCode, err)
	}

	if listing.NextPageToken != "" {
		c.logger.Debug("ignoring further listing pages", "project", projectID)
	}

	screens := MapScreens(listing.Screens)
	c.logger.Info("listed screens", "project", projectID, "count", len(screens), "status", resp.StatusCode)
	return screens, nil
}

// FetchArtifact downloads an artifact. No API key is attached; download
// URLs are pre-signed.
func (c *Client) FetchArtifact(ctx context.Context, downloadURL string) (*domain.ArtifactBody, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrDownloadFailed, err)
	}

	c.logger.Debug("stitch download", "url", downloadURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("stitch download failed", "url", downloadURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("stitch download returned non-success status", "url", downloadURL, "status", resp.StatusCode)
	}

	return &domain.ArtifactBody{Status: resp.StatusCode, Body: resp.Body}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
