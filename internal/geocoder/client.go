// Package geocoder resolves Japanese addresses to coordinates with the CSIS simple geocoder.
package geocoder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"member-heatmap/internal/metrics"
	"member-heatmap/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the CSIS simple geocoding CGI.
	DefaultEndpoint = "http://geocode.csis.u-tokyo.ac.jp/cgi-bin/simple_geocode.cgi"
	// DefaultTimeout bounds one request including reading the body.
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 1 << 20
)

// AddressEncoding controls how the address is placed into the query string.
type AddressEncoding string

const (
	// EncodingRaw appends the address as-is and only percent-encodes bytes that cannot
	// appear in a request line (non-ASCII, controls, spaces). Reserved characters such as
	// '&' and '#' are left alone.
	EncodingRaw AddressEncoding = "raw"
	// EncodingQuery escapes the address as a query value.
	EncodingQuery AddressEncoding = "query"
)

// ParseAddressEncoding maps a config value to an AddressEncoding. Unknown values are an error.
func ParseAddressEncoding(s string) (AddressEncoding, error) {
	switch AddressEncoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", EncodingRaw:
		return EncodingRaw, nil
	case EncodingQuery:
		return EncodingQuery, nil
	}
	return "", fmt.Errorf("geocoder: unknown address encoding %q", s)
}

// Option configures the client.
type Option func(*Client)

// WithEndpoint overrides the geocoding CGI URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client. Its Timeout is the per-request timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. The HTTP client is copied first, so a client
// passed to WithHTTPClient keeps its own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithAddressEncoding selects how addresses are put in the query string.
func WithAddressEncoding(e AddressEncoding) Option {
	return func(c *Client) {
		c.encoding = e
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client talks to the geocoding CGI. It is safe for concurrent use.
type Client struct {
	endpoint   string
	encoding   AddressEncoding
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with a 5 second timeout, raw address encoding and no rate limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		encoding:   EncodingRaw,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL builds the request URL for address.
func (c *Client) URL(address string) string {
	addr := requote(address)
	if c.encoding == EncodingQuery {
		addr = url.QueryEscape(address)
	}
	return c.endpoint + "?charset=UTF8&addr=" + addr
}

// Resolve geocodes one address. It never fails: every error is reported as an unresolved
// Resolution carrying the reason.
func (c *Client) Resolve(ctx context.Context, address string) models.Resolution {
	res := c.resolve(ctx, address)
	outcome := "resolved"
	if !res.Resolved() {
		outcome = string(res.Reason)
		log.Debug().Err(res.Err).Str("address", address).Str("reason", outcome).
			Int("status", res.StatusCode).Msg("address not resolved")
	}
	metrics.GeocodeRequestsTotal.WithLabelValues(outcome).Inc()
	return res
}

func (c *Client) resolve(ctx context.Context, address string) models.Resolution {
	res := models.Resolution{Address: address}
	if strings.TrimSpace(address) == "" {
		res.Reason = models.ReasonEmptyAddress
		return res
	}

	if err := c.limiter.Wait(ctx); err != nil {
		res.Reason, res.Err = models.ReasonRequestFailed, fmt.Errorf("geocoder: rate limit: %w", err)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(address), nil)
	if err != nil {
		res.Reason, res.Err = models.ReasonRequestFailed, fmt.Errorf("geocoder: build request: %w", err)
		return res
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		res.Reason, res.Err = models.ReasonRequestFailed, fmt.Errorf("geocoder: request: %w", err)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeDurationSeconds.Observe(time.Since(start).Seconds())
		res.Reason, res.Err = models.ReasonHTTPStatus, fmt.Errorf("geocoder: returned status %d", resp.StatusCode)
		return res
	}

	coords, err := parseCoordinates(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.GeocodeDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		res.Reason, res.Err = models.ReasonMalformedXML, fmt.Errorf("geocoder: parse response: %w", err)
		return res
	}

	res.Latitude, res.Longitude = coords.latitude, coords.longitude
	if !coords.hasLatitude || !coords.hasLongitude {
		res.Reason = models.ReasonNoCoordinates
	}
	return res
}
