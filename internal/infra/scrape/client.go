package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxBodySize = 8 << 20

// StatusError is returned for non-2xx responses that are not retried.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Retries   int
	Backoff   time.Duration
}

// Client performs GET requests with retries on transport errors and 5xx responses.
type Client struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   time.Duration
	logger    *zap.Logger
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		retries:   max(cfg.Retries, 0),
		backoff:   backoff,
		logger:    logger,
	}
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Warn("scrape request retry", zap.String("url", url), zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retry, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("GET %s: giving up after %d attempts: %w", url, c.retries+1, lastErr)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.logger.Info("scrape request start", zap.String("url", url))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("scrape request failed", zap.String("url", url), zap.Error(err))
		return nil, ctx.Err() == nil, err
	}
	defer response.Body.Close()

	c.logger.Info(
		"scrape request complete",
		zap.String("url", url),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBodySize))
		return nil, response.StatusCode >= 500, &StatusError{URL: url, Status: response.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, !errors.Is(err, context.Canceled), err
	}
	return body, false, nil
}
