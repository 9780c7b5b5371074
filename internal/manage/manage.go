// Package manage runs the configuration and play view actions against the
// server and records their outcome in the state store.
package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"adapterctl/internal/adapters"
	"adapterctl/internal/client"
	"adapterctl/internal/state"

	"golang.org/x/sync/errgroup"
)

// Notification texts
const (
	MsgConfigured = "Adapter was configured!"
	MsgRemoved    = "Adapter was removed!"
	MsgPinged     = "Adapter was pinged!"

	msgAvailableFailed  = "Unable to fetch available adapters: "
	msgConfiguredFailed = "Unable to fetch configured adapters: "
	msgSyncFailed       = "Unable to sync adapters: "
	msgConfigureFailed  = "Adapter was not configured due to an error: "
	msgRemoveFailed     = "Adapter was not removed due to an error: "
	msgPingFailed       = "Adapter was not pinged due to an error: "
)

// Auto-dismiss delays
const (
	SuccessDismiss = 2 * time.Second
	ErrorDismiss   = 8 * time.Second
)

// API is the part of the server client the controller mutates through.
type API interface {
	Sync(ctx context.Context) ([]adapters.Adapter, error)
	Configure(ctx context.Context, location string) ([]adapters.Adapter, error)
	Remove(ctx context.Context, location string) ([]adapters.Adapter, error)
	Ping(ctx context.Context, location string) error
}

// Fetcher produces the probed option lists.
type Fetcher interface {
	FetchAvailable(ctx context.Context) ([]adapters.Option, error)
	FetchConfigured(ctx context.Context) ([]adapters.Option, error)
}

// CurrentAdapterSink receives the display name of an explicitly selected
// adapter.
type CurrentAdapterSink interface {
	SetCurrentAdapter(name string) error
}

// Controller performs view actions.
type Controller struct {
	store   *state.Store
	api     API
	fetcher Fetcher
	sink    CurrentAdapterSink
	logger  *slog.Logger
	now     func() time.Time
}

// Option is a functional option for configuring a Controller
type Option func(*Controller)

// WithCurrentAdapterSink sets where explicit selections are published
func WithCurrentAdapterSink(sink CurrentAdapterSink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithClock sets the time source used to stamp notifications
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller.
func New(store *state.Store, api API, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		api:     api,
		fetcher: fetcher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the state store the controller writes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// begin raises the progress indicator and returns the func that lowers it.
func (c *Controller) begin() func() {
	c.store.Dispatch(state.ProgressStarted{})
	return func() {
		c.store.Dispatch(state.ProgressFinished{})
	}
}

func (c *Controller) notify(msg string, sev state.Severity, dismiss time.Duration) {
	c.store.Dispatch(state.Notify{Message: msg, Severity: sev, AutoDismiss: dismiss, At: c.now()})
}

func (c *Controller) fail(prefix string, err error) {
	c.notify(prefix+Describe(err), state.SeverityError, ErrorDismiss)
}

// LoadAvailable refreshes the available adapter options. On failure the
// previous list is kept.
func (c *Controller) LoadAvailable(ctx context.Context) error {
	defer c.begin()()

	opts, err := c.fetcher.FetchAvailable(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		c.logger.Warn("available adapters fetch failed", "error", err)
		c.fail(msgAvailableFailed, err)
		return err
	}
	c.store.Dispatch(state.AvailableLoaded{Options: opts})
	return nil
}

// LoadConfigured refreshes the configured adapter options. On failure the
// previous list is kept.
func (c *Controller) LoadConfigured(ctx context.Context) error {
	defer c.begin()()

	opts, err := c.fetcher.FetchConfigured(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		c.logger.Warn("configured adapters fetch failed", "error", err)
		c.fail(msgConfiguredFailed, err)
		return err
	}
	c.store.Dispatch(state.ConfiguredLoaded{Options: opts})
	return nil
}

// Sync loads the adapter list from the server session.
func (c *Controller) Sync(ctx context.Context) error {
	defer c.begin()()

	list, err := c.api.Sync(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		c.logger.Warn("session sync failed", "error", err)
		c.fail(msgSyncFailed, err)
		return err
	}
	c.store.Dispatch(state.AdaptersUpdated{Adapters: list})
	return nil
}

// Refresh syncs the adapter list and reloads both option lists
// concurrently. It returns the first error; every failure is notified.
func (c *Controller) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.Sync(ctx) })
	g.Go(func() error { return c.LoadAvailable(ctx) })
	g.Go(func() error { return c.LoadConfigured(ctx) })
	return g.Wait()
}

// Configure registers the adapter at location and reloads the configured
// options.
func (c *Controller) Configure(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return client.ErrEmptyLocation
	}

	done := c.begin()
	list, err := c.api.Configure(ctx, location)
	if ctx.Err() != nil {
		done()
		return ctx.Err()
	}
	if err != nil {
		done()
		c.logger.Warn("configure failed", "location", location, "error", err)
		c.fail(msgConfigureFailed, err)
		return err
	}
	c.store.Dispatch(state.AdaptersUpdated{Adapters: list})
	c.notify(MsgConfigured, state.SeveritySuccess, SuccessDismiss)
	done()

	c.logger.Info("adapter configured", "location", location)
	if err := c.LoadConfigured(ctx); err != nil {
		c.logger.Debug("reload after configure failed", "error", err)
	}
	return nil
}

// Remove unregisters the adapter at location.
func (c *Controller) Remove(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return client.ErrEmptyLocation
	}

	defer c.begin()()
	list, err := c.api.Remove(ctx, location)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		c.logger.Warn("remove failed", "location", location, "error", err)
		c.fail(msgRemoveFailed, err)
		return err
	}
	c.store.Dispatch(state.AdaptersUpdated{Adapters: list})
	c.notify(MsgRemoved, state.SeveritySuccess, SuccessDismiss)
	c.logger.Info("adapter removed", "location", location)
	return nil
}

// PingOne asks the server to ping the adapter at location. The adapter list
// is left as is.
func (c *Controller) PingOne(ctx context.Context, location string) bool {
	location = strings.TrimSpace(location)
	if location == "" {
		c.fail(msgPingFailed, client.ErrEmptyLocation)
		return false
	}

	defer c.begin()()
	err := c.api.Ping(ctx, location)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		c.logger.Warn("ping failed", "location", location, "error", err)
		c.fail(msgPingFailed, err)
		return false
	}
	c.notify(MsgPinged, state.SeveritySuccess, SuccessDismiss)
	return true
}

// SelectFromQuery selects the adapter whose port matches a navigation query
// value. Unknown values leave the selection as it was.
func (c *Controller) SelectFromQuery(port string) state.State {
	return c.store.Dispatch(state.SelectFromQuery{Port: strings.TrimSpace(port)})
}

// SelectExplicit selects the adapter at port and publishes its name as the
// current adapter.
func (c *Controller) SelectExplicit(port string) error {
	port = strings.TrimSpace(port)
	a, ok := adapters.FindByPort(c.store.Snapshot().Adapters, port)
	if !ok {
		return fmt.Errorf("%w: %s", adapters.ErrUnknownAdapter, port)
	}

	c.store.Dispatch(state.SelectExplicit{Port: a.Port, Name: a.Name})
	if c.sink != nil {
		if err := c.sink.SetCurrentAdapter(a.Name); err != nil {
			c.logger.Warn("failed to record current adapter", "adapter", a.Name, "error", err)
		}
	}
	return nil
}

// Selected returns the selected adapter or state.ErrNoSelection.
func (c *Controller) Selected() (adapters.Adapter, error) {
	a, ok := c.store.Snapshot().Selected()
	if !ok {
		return adapters.Adapter{}, state.ErrNoSelection
	}
	return a, nil
}

// Dismiss closes one notification.
func (c *Controller) Dismiss(id int) {
	c.store.Dispatch(state.Dismiss{ID: id})
}

// Expire drops notifications whose auto-dismiss delay has passed.
func (c *Controller) Expire() {
	c.store.Dispatch(state.DismissExpired{Now: c.now()})
}

// Describe returns the text shown after a failure prefix. Server errors use
// the server's message.
func Describe(err error) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode != 0 {
			return fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.StatusCode)
		}
		return apiErr.Message
	}
	return err.Error()
}
