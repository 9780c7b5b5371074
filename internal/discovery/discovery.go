// Package discovery fetches the available and configured adapter lists and
// probes every entry for reachability.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"adapterctl/internal/adapters"
	"adapterctl/internal/client"
	"adapterctl/internal/probe"

	"golang.org/x/sync/errgroup"
)

// DefaultProbeHost is the host probed for available adapters.
const DefaultProbeHost = "localhost"

// Lister is the part of the server API the fetcher needs.
type Lister interface {
	AvailableAdapters(ctx context.Context) ([]client.AvailableAdapter, error)
	ConfiguredAdapters(ctx context.Context) ([]client.ConfiguredAdapter, error)
}

// Fetcher turns backend adapter lists into probed options.
type Fetcher struct {
	lister Lister
	prober probe.Prober
	host   string
	limit  int
	logger *slog.Logger
}

// Option is a functional option for configuring a Fetcher
type Option func(*Fetcher)

// WithProbeHost sets the host probed for available adapters
func WithProbeHost(host string) Option {
	return func(f *Fetcher) {
		if host = strings.TrimSpace(host); host != "" {
			f.host = host
		}
	}
}

// WithConcurrency caps the number of in-flight probes. 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.limit = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// New creates a fetcher.
func New(lister Lister, prober probe.Prober, opts ...Option) *Fetcher {
	f := &Fetcher{
		lister: lister,
		prober: prober,
		host:   DefaultProbeHost,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ProbeHost returns the host probed for available adapters.
func (f *Fetcher) ProbeHost() string {
	return f.host
}

// target is one probe to run and the option it produces.
type target struct {
	host  string
	port  string
	value string
	label string
}

// FetchAvailable lists the available adapters and probes each one on the
// probe host.
func (f *Fetcher) FetchAvailable(ctx context.Context) ([]adapters.Option, error) {
	list, err := f.lister.AvailableAdapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch available adapters: %w", err)
	}

	targets := make([]target, len(list))
	for i, a := range list {
		targets[i] = target{
			host:  f.host,
			port:  a.Port,
			value: a.Port,
			label: a.Name + ":" + a.Port,
		}
	}
	return f.probeAll(ctx, targets)
}

// FetchConfigured lists the configured adapter URLs and probes each one at
// its own host and port.
func (f *Fetcher) FetchConfigured(ctx context.Context) ([]adapters.Option, error) {
	list, err := f.lister.ConfiguredAdapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch configured adapters: %w", err)
	}

	targets := make([]target, len(list))
	for i, a := range list {
		targets[i] = target{
			host:  a.Name,
			port:  a.Port,
			value: a.Name,
			label: a.Name + ":" + a.Port,
		}
	}
	return f.probeAll(ctx, targets)
}

// probeAll starts one probe per target and waits for all of them. Probes
// never fail the group; each result lands in its own slot so output order
// matches input order.
func (f *Fetcher) probeAll(ctx context.Context, targets []target) ([]adapters.Option, error) {
	options := make([]adapters.Option, len(targets))

	var g errgroup.Group
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			ok := f.prober.Probe(ctx, t.host, t.port)
			if !ok {
				f.logger.Debug("adapter not reachable", "host", t.host, "port", t.port)
			}
			options[i] = adapters.Option{Value: t.value, Label: t.label, Pingable: ok}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return options, nil
}

// MarshalOptions renders options as indented JSON. Equal input gives
// byte-identical output.
func MarshalOptions(opts []adapters.Option) ([]byte, error) {
	if opts == nil {
		opts = []adapters.Option{}
	}
	return json.MarshalIndent(opts, "", "  ")
}
