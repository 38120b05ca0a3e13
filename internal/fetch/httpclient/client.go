// Package httpclient owns the single long-lived outbound HTTP client shared
// by every fetcher. The client is created lazily, reused for the process
// lifetime and torn down by the container's shutdown path.
package httpclient

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const defaultUserAgent = "go-trip-planner/1.0"

// Options configures the shared client. Zero values fall back to sane
// defaults.
type Options struct {
	RequestTimeout time.Duration // total per-request budget
	ConnectTimeout time.Duration // dial budget
	IdleConnTTL    time.Duration // how long pooled sockets may idle
	MaxPerHost     int           // pool ceiling, matches the governor ceiling
	UserAgent      string
}

// Manager hands out one reusable *http.Client. At most one live instance
// exists process-wide; Close is idempotent and a closed manager rebuilds the
// client on the next Client call.
type Manager struct {
	mu     sync.Mutex
	client *http.Client
	opts   Options
	logger *slog.Logger
}

func NewManager(opts Options, logger *slog.Logger) *Manager {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.IdleConnTTL <= 0 {
		opts.IdleConnTTL = 300 * time.Second
	}
	if opts.MaxPerHost <= 0 {
		opts.MaxPerHost = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Manager{opts: opts, logger: logger}
}

// Client returns the shared instance, building it on first use.
func (m *Manager) Client() *http.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return m.client
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   m.opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:     m.opts.MaxPerHost,
		MaxIdleConnsPerHost: m.opts.MaxPerHost,
		IdleConnTimeout:     m.opts.IdleConnTTL,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	m.client = &http.Client{
		Timeout: m.opts.RequestTimeout,
		Transport: &headerTransport{
			base:      transport,
			userAgent: m.opts.UserAgent,
		},
	}
	m.logger.Debug("Outbound HTTP client initialized",
		slog.Duration("request_timeout", m.opts.RequestTimeout),
		slog.Int("max_conns_per_host", m.opts.MaxPerHost))
	return m.client
}

// Close releases pooled sockets. Safe to call repeatedly and from the
// container's shutdown hook.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return
	}
	m.client.CloseIdleConnections()
	m.client = nil
	m.logger.Debug("Outbound HTTP client closed")
}

// headerTransport applies the default headers every upstream expects.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return t.base.RoundTrip(req)
}
