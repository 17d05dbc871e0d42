package zoneconfig

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Holder provides thread-safe access to the current zone configuration
// and supports hot reloading from file, either through the watcher or a
// manual trigger.
type Holder struct {
	mu      sync.RWMutex
	current Config

	path    string
	watcher *fsnotify.Watcher
	log     *zap.Logger

	listenerMu sync.RWMutex
	listeners  []chan<- Config
}

// NewHolder creates a holder for the given config file with an initial
// configuration.
func NewHolder(initial Config, path string, log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}

	return &Holder{
		current: initial,
		path:    path,
		log:     log,
	}
}

// Get returns the current configuration.
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload reads the config file again. If loading or validation fails the
// previous configuration is kept and an error is returned; otherwise the
// new configuration is swapped in atomically and listeners are notified.
func (h *Holder) Reload() error {
	newCfg, err := Load(h.path)
	if err != nil {
		h.log.Error("config reload failed, keeping previous configuration",
			zap.Error(err), zap.String("path", h.path))
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	old := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.notify(newCfg)

	h.log.Info("configuration reloaded",
		zap.Int("zones", len(newCfg.Zones)),
		zap.Int("zones_before", len(old.Zones)))

	return nil
}

// RegisterListener registers a channel receiving the new configuration
// after each successful reload. Sends are non-blocking; a full channel is
// skipped.
func (h *Holder) RegisterListener(ch chan<- Config) {
	h.listenerMu.Lock()
	defer h.listenerMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notify(cfg Config) {
	h.listenerMu.RLock()
	defer h.listenerMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.log.Warn("skipped reload notification, listener channel full")
		}
	}
}

// StartWatcher watches the config file and calls reload on changes. Write
// and create events are debounced to survive editors replacing the file.
// Routing automatic reloads through the caller's reload function lets it
// observe failures the same way as manually triggered reloads.
func (h *Holder) StartWatcher(ctx context.Context, reload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(h.path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.watcher = watcher
	h.log.Info("watching config file", zap.String("path", h.path))

	go h.watchLoop(ctx, reload)

	return nil
}

func (h *Holder) watchLoop(ctx context.Context, reload func() error) {
	const debounce = 500 * time.Millisecond

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := reload(); err != nil {
					h.log.Error("automatic config reload failed", zap.Error(err))
				}
			})

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Error("config watcher error", zap.Error(err))
		}
	}
}

// Stop stops the config watcher if running.
func (h *Holder) Stop() {
	if h.watcher != nil {
		h.watcher.Close()
	}
}
