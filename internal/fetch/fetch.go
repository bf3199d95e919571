// Package fetch retrieves documents over HTTP with optional on-disk
// caching and client-side rate limiting.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrStatus indicates a non-200 response.
var ErrStatus = errors.New("unexpected response status")

// maxBodySize caps document downloads at 32 MiB.
const maxBodySize = 32 << 20

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	RateLimit float64 // Requests per second (0 = unlimited)
	CacheDir  string  // Empty disables caching
	Logger    *zap.Logger
}

// Client retrieves documents. Cached responses are served without touching
// the network or the rate limiter.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *Cache
	log     *zap.SugaredLogger
}

// New creates a Client from opts. The cache directory is created when
// caching is enabled.
func New(opts Options) (*Client, error) {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache *Cache
	if opts.CacheDir != "" {
		var err error
		if cache, err = NewCache(opts.CacheDir); err != nil {
			return nil, err
		}
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		IdleConnTimeout:       60 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
		cache:   cache,
		log:     logger.Sugar(),
	}, nil
}

// Get retrieves the document at rawURL, serving from cache when possible.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			c.log.Debugw("cache hit", "url", rawURL, "bytes", len(body))
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	c.log.Debugw("fetching", "url", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrStatus, rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(rawURL, body); err != nil {
			// A failed cache write is not a failed fetch.
			c.log.Warnw("cache write failed", "url", rawURL, "error", err)
		}
	}

	return body, nil
}
