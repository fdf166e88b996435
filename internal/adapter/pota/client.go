// Package pota talks to the public Parks on the Air API.
package pota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hamgrid/channel-data-etl/internal/observability"
)

// Location is one POTA location descriptor (e.g. "AT-NO") with its park count.
type Location struct {
	Descriptor string `json:"descriptor"`
	Name       string `json:"name"`
	Parks      int    `json:"parks"`
}

// Park is one park reference as served by /location/parks/{descriptor}.
type Park struct {
	Reference string  `json:"reference"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Grid      string  `json:"grid"`
}

// Client fetches POTA locations and parks with bounded retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	attempts   int
	backoff    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a POTA API client. attempts is the total number of
// tries per request; backoff is the first retry delay and doubles on
// each subsequent retry.
func NewClient(baseURL string, timeout time.Duration, attempts int, backoff time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		attempts:   attempts,
		backoff:    backoff,
		metrics:    metrics,
		logger:     logger,
	}
}

// program mirrors the /programs/locations response: programs contain
// entities, entities contain locations.
type program struct {
	Prefix   string `json:"prefix"`
	Name     string `json:"name"`
	Entities []struct {
		Locations []Location `json:"locations"`
	} `json:"entities"`
}

// Locations returns every location descriptor whose country prefix is in
// prefixes and which has at least one registered park.
func (c *Client) Locations(ctx context.Context, prefixes []string) ([]Location, error) {
	var programs []program
	if err := c.getJSON(ctx, "/programs/locations", "locations", &programs); err != nil {
		return nil, fmt.Errorf("fetch POTA locations: %w", err)
	}

	wanted := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		wanted[strings.ToUpper(p)] = struct{}{}
	}

	var out []Location
	for _, prog := range programs {
		for _, entity := range prog.Entities {
			for _, loc := range entity.Locations {
				prefix, _, ok := strings.Cut(loc.Descriptor, "-")
				if !ok {
					continue
				}
				if _, want := wanted[strings.ToUpper(prefix)]; !want {
					continue
				}
				if loc.Parks == 0 {
					continue
				}
				out = append(out, loc)
			}
		}
	}
	return out, nil
}

// ParksForLocation returns all parks registered under one location
// descriptor.
func (c *Client) ParksForLocation(ctx context.Context, descriptor string) ([]Park, error) {
	var parks []Park
	if err := c.getJSON(ctx, "/location/parks/"+descriptor, "parks", &parks); err != nil {
		return nil, fmt.Errorf("fetch parks for %s: %w", descriptor, err)
	}
	return parks, nil
}

// getJSON performs a GET with retry on transient failure: network errors
// and 5xx/429 responses are retried with doubling backoff, other status
// codes fail immediately.
func (c *Client) getJSON(ctx context.Context, path, endpoint string, v any) error {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			c.metrics.POTARetries.Inc()
			if !sleepWithContext(ctx, backoff) {
				return ctx.Err()
			}
			backoff *= 2
		}

		lastErr = c.doOnce(ctx, path, endpoint, v)
		if lastErr == nil {
			c.metrics.POTARequests.WithLabelValues(endpoint, "success").Inc()
			return nil
		}
		c.metrics.POTARequests.WithLabelValues(endpoint, "error").Inc()

		if !isTransient(lastErr) {
			return lastErr
		}
		c.logger.Warn("POTA request failed, retrying",
			"path", path, "attempt", attempt, "attempts", c.attempts, "error", lastErr)
	}
	return fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) doOnce(ctx context.Context, path, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.POTAAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return &transientError{err: fmt.Errorf("pota request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("pota API error: status %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return &transientError{err: err}
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
