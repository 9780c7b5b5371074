// Package watch re-checks adapter availability on an interval and reloads
// settings when the settings file changes or the process gets SIGHUP.
package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults
const (
	DefaultInterval = 5 * time.Second
	DefaultDebounce = 100 * time.Millisecond
)

// RefreshFunc re-fetches adapter state.
type RefreshFunc func(ctx context.Context) error

// ReloadFunc re-reads settings. It may return a new refresh interval; zero
// keeps the current one.
type ReloadFunc func() (time.Duration, error)

// Watcher runs a refresh loop.
type Watcher struct {
	refresh    RefreshFunc
	reload     ReloadFunc
	interval   time.Duration
	configPath string
	debounce   time.Duration
	signals    bool
	logger     *slog.Logger

	reloads   chan struct{}
	debouncer *time.Timer
	mu        sync.Mutex
}

// Option is a functional option for configuring a Watcher
type Option func(*Watcher)

// WithInterval sets the refresh interval
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithConfigFile reloads settings when path changes. reload is called after
// writes settle for the debounce delay.
func WithConfigFile(path string, reload ReloadFunc) Option {
	return func(w *Watcher) {
		w.configPath = path
		w.reload = reload
	}
}

// WithDebounce sets how long file events must settle before a reload
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSignals makes SIGHUP reload settings and SIGINT/SIGTERM stop the loop
func WithSignals(enabled bool) Option {
	return func(w *Watcher) {
		w.signals = enabled
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher calling refresh on every tick.
func New(refresh RefreshFunc, opts ...Option) *Watcher {
	w := &Watcher{
		refresh:  refresh,
		interval: DefaultInterval,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		reloads:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Interval returns the current refresh interval.
func (w *Watcher) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// Run refreshes immediately and then on every tick until ctx is done or a
// stop signal arrives. Refresh errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if w.configPath != "" && w.reload != nil {
		fw, err := w.startFileWatcher(ctx)
		if err != nil {
			return err
		}
		defer fw.Close()
	}
	if w.signals {
		w.handleSignals(ctx, cancel)
	}

	w.tick(ctx)

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return nil
		case <-ticker.C:
			w.tick(ctx)
		case <-w.reloads:
			if w.applyReload() {
				ticker.Reset(w.Interval())
			}
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	if err := w.refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("refresh failed", "error", err)
	}
}

// applyReload runs the reload func and reports whether the interval changed.
func (w *Watcher) applyReload() bool {
	if w.reload == nil {
		return false
	}
	interval, err := w.reload()
	if err != nil {
		w.logger.Error("failed to reload settings", "error", err)
		return false
	}
	w.logger.Info("settings reloaded")

	w.mu.Lock()
	defer w.mu.Unlock()
	if interval > 0 && interval != w.interval {
		w.interval = interval
		return true
	}
	return false
}

// requestReload queues a reload without blocking; pending requests coalesce.
func (w *Watcher) requestReload() {
	select {
	case w.reloads <- struct{}{}:
	default:
	}
}

func (w *Watcher) startFileWatcher(ctx context.Context) (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(w.configPath)
	go func() {
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				// atomic writes show up as create or rename of the target
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					w.debouncedReload()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	// the directory is watched because the file is replaced on every write
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w.logger.Debug("watching settings directory", "dir", dir)
	return fw, nil
}

func (w *Watcher) debouncedReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debouncer != nil {
		w.debouncer.Stop()
	}
	w.debouncer = time.AfterFunc(w.debounce, w.requestReload)
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debouncer != nil {
		w.debouncer.Stop()
	}
}

func (w *Watcher) handleSignals(ctx context.Context, stop context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case sig := <-sigChan:
				switch sig {
				case syscall.SIGHUP:
					w.logger.Info("received SIGHUP, reloading settings")
					w.requestReload()
				default:
					w.logger.Info("shutting down", "signal", sig.String())
					stop()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
