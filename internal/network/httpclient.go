// File: internal/network/httpclient.go
package network

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Constants for default TCP/HTTP settings.
const (
	DefaultDialTimeout           = 5 * time.Second
	DefaultKeepAliveInterval     = 15 * time.Second
	DefaultTLSHandshakeTimeout   = 5 * time.Second
	DefaultResponseHeaderTimeout = 10 * time.Second
	DefaultRequestTimeout        = 30 * time.Second

	// Pool sizing for a service that talks to a small set of hosts
	// (the form host plus the generation API).
	DefaultMaxIdleConns        = 20
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 30 * time.Second
)

// ClientConfig holds the configuration for the HTTP client and transport.
type ClientConfig struct {
	RequestTimeout        time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// FollowRedirects controls redirect chasing. The submission client
	// disables it so the target's 302-on-success can be observed rather
	// than followed.
	FollowRedirects bool

	// UserAgent is attached to every request built with NewRequest.
	UserAgent string

	Logger *zap.Logger
}

// NewDefaultClientConfig creates a configuration suitable for fetching and
// submitting forms.
func NewDefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		RequestTimeout:        DefaultRequestTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		FollowRedirects:       true,
	}
}

// NewHTTPTransport creates an http.Transport from the configuration.
func NewHTTPTransport(cfg *ClientConfig) *http.Transport {
	if cfg == nil {
		cfg = NewDefaultClientConfig()
	}
	dialer := &net.Dialer{
		Timeout:   DefaultDialTimeout,
		KeepAlive: DefaultKeepAliveInterval,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ForceAttemptHTTP2:     true,
	}
}

// Client wraps the standard http.Client with a preconfigured transport and
// client identity.
//
// The caller is responsible for closing Response.Body after consuming it.
type Client struct {
	*http.Client
	userAgent string
	logger    *zap.Logger
}

// NewClient builds a Client from the configuration.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = NewDefaultClientConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{
		Transport: NewHTTPTransport(cfg),
		Timeout:   cfg.RequestTimeout,
	}
	if !cfg.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		Client:    httpClient,
		userAgent: cfg.UserAgent,
		logger:    logger.Named("httpclient"),
	}
}

// NewRequest builds a request carrying the configured client identity.
func (c *Client) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}
