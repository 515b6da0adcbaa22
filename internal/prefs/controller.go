package prefs

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
)

const defaultSaveTimeout = 5 * time.Second

// Controller owns the live DisplayConfig. UI events are its only writer.
type Controller struct {
	mu      sync.Mutex
	cfg     DisplayConfig
	gen     uint64
	stopped bool

	persister   Persister
	syncer      Syncer
	onExit      func()
	saveTimeout time.Duration
	log         logger.Logger

	saveMu sync.Mutex
	saved  uint64
	wg     sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithSyncer registers the UI-sync collaborator.
func WithSyncer(s Syncer) Option {
	return func(c *Controller) {
		c.syncer = s
	}
}

// WithExitHook registers the action run on an exit event.
func WithExitHook(fn func()) Option {
	return func(c *Controller) {
		c.onExit = fn
	}
}

// WithSaveTimeout bounds each persistence request.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.saveTimeout = d
	}
}

// NewController starts from initial. A nil persister disables persistence.
func NewController(initial DisplayConfig, p Persister, opts ...Option) *Controller {
	c := &Controller{
		cfg:         initial,
		persister:   p,
		saveTimeout: defaultSaveTimeout,
		log:         logger.For("prefs"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LoadOrDefault reads the persisted configuration, falling back to defaults
// when nothing is stored or the record cannot be read.
func LoadOrDefault(ctx context.Context, p Persister) DisplayConfig {
	log := logger.For("prefs")
	if p == nil {
		return Default()
	}

	cfg, err := p.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("error_code", string(errors.CodeOf(err))).Msg("Failed to load preferences, using defaults")
		return Default()
	}
	if cfg == nil {
		log.Debug().Msg("No stored preferences, using defaults")
		return Default()
	}

	return *cfg
}

// Current returns a copy of the live configuration.
func (c *Controller) Current() DisplayConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cfg
}

// Handle applies e. The lock is released before the UI is synced and before
// persistence is requested; neither can block or roll back the mutation.
// Events arriving after exit or Stop are ignored.
func (c *Controller) Handle(e Event) DisplayConfig {
	if e == EventExit {
		c.log.Info().Msg("Exit requested")
		c.Stop()
		if c.onExit != nil {
			c.onExit()
		}
		return c.Current()
	}

	c.mu.Lock()
	if c.stopped {
		cfg := c.cfg
		c.mu.Unlock()
		c.log.Debug().Str("event", string(e)).Msg("Ignoring event after stop")
		return cfg
	}
	c.cfg = Apply(c.cfg, e)
	c.gen++
	cfg, gen := c.cfg, c.gen
	// Registered under the lock so Stop followed by Wait covers this save.
	if c.persister != nil {
		c.wg.Add(1)
	}
	c.mu.Unlock()

	c.log.Debug().
		Str("event", string(e)).
		Bool("show_cpu", cfg.ShowCPU).
		Bool("show_mem", cfg.ShowMem).
		Bool("show_nw", cfg.ShowNW).
		Str("mode", cfg.Mode.String()).
		Bool("is_alert", cfg.IsAlert).
		Msg("Preferences changed")

	if c.syncer != nil {
		if err := c.syncer.Sync(cfg); err != nil {
			c.log.Debug().Err(err).Msg("UI sync failed")
		}
	}

	if c.persister != nil {
		go c.save(cfg, gen)
	}

	return cfg
}

// save persists cfg. A save that lost the race to a newer configuration is
// skipped.
func (c *Controller) save(cfg DisplayConfig, gen uint64) {
	defer c.wg.Done()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	// Only a successful save advances saved, so an older queued save
	// still lands when a newer one failed.
	if c.saved >= gen {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()

	if err := c.persister.Save(ctx, cfg); err != nil {
		c.log.Warn().Err(err).Str("error_code", string(errors.CodeOf(err))).Msg("Failed to save preferences")
		return
	}
	c.saved = gen
}

// Stop makes the controller ignore further events. Saves already requested
// still run; Wait drains them.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
}

// Wait blocks until every pending save has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}
