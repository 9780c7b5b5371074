// Package probe answers a single question about an adapter endpoint: is it
// reachable right now. Every failure is reduced to false.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Probe modes
const (
	ModeHTTP = "http"
	ModeTCP  = "tcp"
)

// DefaultTimeout bounds a single probe when none is configured.
const DefaultTimeout = 4 * time.Second

// Prober reports whether host:port is reachable.
type Prober interface {
	Probe(ctx context.Context, host, port string) bool
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, host, port string) bool

// Probe calls f.
func (f Func) Probe(ctx context.Context, host, port string) bool {
	return f(ctx, host, port)
}

// Reachability is the default Prober.
type Reachability struct {
	mode    string
	timeout time.Duration
	client  *http.Client
	dialer  *net.Dialer
	logger  *slog.Logger
}

// Option is a functional option for configuring a Reachability prober
type Option func(*Reachability)

// WithMode selects http or tcp probing
func WithMode(mode string) Option {
	return func(r *Reachability) {
		r.mode = strings.ToLower(strings.TrimSpace(mode))
	}
}

// WithTimeout sets the per-probe timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Reachability) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(r *Reachability) {
		r.client = c
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(l *slog.Logger) Option {
	return func(r *Reachability) {
		r.logger = l
	}
}

// New creates a Reachability prober. Unknown modes fall back to http.
func New(opts ...Option) *Reachability {
	r := &Reachability{
		mode:    ModeHTTP,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.mode != ModeTCP {
		r.mode = ModeHTTP
	}
	if r.client == nil {
		r.client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	r.dialer = &net.Dialer{}
	return r
}

// Mode returns the active probe mode.
func (r *Reachability) Mode() string {
	return r.mode
}

// Timeout returns the per-probe timeout.
func (r *Reachability) Timeout() time.Duration {
	return r.timeout
}

// Probe never returns an error and never blocks longer than the timeout.
func (r *Reachability) Probe(ctx context.Context, host, port string) bool {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	if host == "" || port == "" {
		r.logger.Debug("probe skipped, incomplete address", "host", host, "port", port)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		ok  bool
		err error
	)
	start := time.Now()
	switch r.mode {
	case ModeTCP:
		ok, err = r.dial(ctx, host, port)
	default:
		ok, err = r.get(ctx, host, port)
	}

	attrs := []any{"mode", r.mode, "host", host, "port", port, "reachable", ok, "elapsed", time.Since(start)}
	if err != nil {
		attrs = append(attrs, "reason", Describe(err, r.timeout))
	}
	r.logger.Debug("probe finished", attrs...)
	return ok
}

func (r *Reachability) get(ctx context.Context, host, port string) (bool, error) {
	target := "http://" + net.JoinHostPort(host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}
	return true, nil
}

func (r *Reachability) dial(ctx context.Context, host, port string) (bool, error) {
	conn, err := r.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return false, err
	}
	_ = conn.Close()
	return true, nil
}

// Describe turns a transport error into a short human readable reason.
func Describe(err error, timeout time.Duration) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return fmt.Sprintf("timed out (more than %s)", timeout)
	}
	switch {
	case strings.Contains(errStr, "context deadline exceeded"):
		return fmt.Sprintf("timed out (more than %s)", timeout)
	case strings.Contains(errStr, "context canceled"):
		return "cancelled"
	case strings.Contains(errStr, "connection refused"):
		return "connection refused (nothing listening on this port)"
	case strings.Contains(errStr, "network is unreachable"):
		return "network unreachable"
	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "NXDOMAIN"):
		return "DNS resolution failed"
	case strings.Contains(errStr, "EOF"):
		return "connection closed unexpectedly"
	}
	return errStr
}
