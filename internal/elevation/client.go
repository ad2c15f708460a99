package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/logging"
)

const (
	// DefaultURL is the public Open-Elevation lookup endpoint.
	DefaultURL = "https://api.open-elevation.com/api/v1/lookup"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 10 * time.Second

	// DefaultChunkSize bounds the points per request to respect the
	// provider's payload limit.
	DefaultChunkSize = 100
)

// Client queries the Open-Elevation API in bounded chunks.
//
// A failed chunk degrades to invalid samples for its points; the call as a
// whole only fails on context cancellation. The design accepts degraded
// accuracy over retry latency, so there are no retry loops.
type Client struct {
	client    *http.Client
	url       string
	timeout   time.Duration
	chunkSize int
	log       *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets a custom lookup endpoint.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithChunkSize sets the maximum points per request.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithLogger sets the logger for degraded-lookup warnings.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates an Open-Elevation client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:       DefaultURL,
		timeout:   DefaultTimeout,
		chunkSize: DefaultChunkSize,
		log:       logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// URL returns the configured endpoint.
func (c *Client) URL() string {
	return c.url
}

// lookupRequest is the Open-Elevation POST payload.
type lookupRequest struct {
	Locations []location `json:"locations"`
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// lookupResponse is the Open-Elevation response body.
type lookupResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Elevations implements Provider. The result has the same length and order
// as points; entries from failed chunks carry Valid:false.
func (c *Client) Elevations(ctx context.Context, points []geo.Point) ([]Sample, error) {
	samples := make([]Sample, len(points))

	for start := 0; start < len(points); start += c.chunkSize {
		if err := ctx.Err(); err != nil {
			return samples, err
		}

		end := start + c.chunkSize
		if end > len(points) {
			end = len(points)
		}

		chunk, err := c.lookup(ctx, points[start:end])
		if err != nil {
			c.log.Warn("elevation lookup failed for %d points: %v", end-start, err)
			continue
		}

		copy(samples[start:end], chunk)
	}

	return samples, nil
}

// lookup performs one POST for a single chunk.
func (c *Client) lookup(ctx context.Context, points []geo.Point) ([]Sample, error) {
	payload := lookupRequest{Locations: make([]location, len(points))}
	for i, p := range points {
		payload.Locations[i] = location{Latitude: p.Lat, Longitude: p.Lon}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var parsed lookupResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(parsed.Results) != len(points) {
		return nil, fmt.Errorf("result count %d does not match %d requested points",
			len(parsed.Results), len(points))
	}

	samples := make([]Sample, len(points))
	for i, r := range parsed.Results {
		samples[i] = Sample{ElevationM: r.Elevation, Valid: true}
	}

	return samples, nil
}
