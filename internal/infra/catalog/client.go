// Package catalog implements the HTTP client for the external content catalog.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"mylist-service/internal/domain"
)

// contentPath is the catalog API path for a single content record.
const contentPath = "/api/v1/catalog/{kind}/{id}"

// ClientConfig holds configuration for the catalog client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client implements domain.Catalog against the catalog HTTP API.
//
// Failure classification matters here: a 404 means the content genuinely
// does not exist, while transport errors, 5xx responses and an open circuit
// breaker are transient and wrapped with domain.ErrUnavailable so callers
// never mistake an outage for a missing record.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new catalog client.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes.
			// 404 is a definitive answer and must not be retried.
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: cfg.CB.MaxRequests,
		Interval:    cfg.CB.Interval,
		Timeout:     cfg.CB.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.CB.FailureRatio
		},
	}

	return &Client{
		client: client,
		cb:     gobreaker.NewCircuitBreaker[*resty.Response](settings),
		logger: logger,
	}
}

// Exists confirms the content exists with the given kind. A HEAD request
// keeps the check cheap; the body is never transferred.
func (c *Client) Exists(ctx context.Context, contentID string, kind domain.ContentType) (bool, error) {
	resp, err := c.do(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetPathParam("kind", string(kind)).
			SetPathParam("id", contentID).
			Head(contentPath)
	})
	if err != nil {
		return false, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}

	return true, nil
}

// Fetch retrieves full content metadata.
// Returns domain.ErrNotFound if the content does not exist.
func (c *Client) Fetch(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentSummary, error) {
	var item ContentItem
	resp, err := c.do(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetPathParam("kind", string(kind)).
			SetPathParam("id", contentID).
			SetResult(&item).
			Get(contentPath)
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", kind, contentID, domain.ErrNotFound)
	}

	return item.ToDomain(), nil
}

// HealthCheck verifies the catalog is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// do executes a request through the circuit breaker and classifies failures.
// 404 responses pass through as successes for the caller to interpret; they
// must not trip the breaker or count as lookup failures.
func (c *Client) do(req func() (*resty.Response, error)) (*resty.Response, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := req()
		if err != nil {
			return nil, err
		}
		if r.IsError() && r.StatusCode() != http.StatusNotFound {
			return nil, fmt.Errorf("catalog returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("catalog lookup failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("catalog lookup: %w: %v", domain.ErrUnavailable, err)
	}

	return resp, nil
}
