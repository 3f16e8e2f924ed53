package peers

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithLookupTimeout bounds each entity lookup against the peer.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.lookupTimeout = d
		}
	}
}

// WithProbeTimeout bounds each liveness probe against the peer.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}
