package render

import (
	"context"
	"time"

	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"codeberg.org/mutker/vitalmon/internal/prefs"
)

// Sink displays the status line. Delivery is best-effort.
type Sink interface {
	SetTitle(text string) error
}

const (
	DefaultRenderInterval   = time.Second
	DefaultRotationInterval = 5 * time.Second
)

// Config holds the two independent tick intervals.
type Config struct {
	RenderInterval   time.Duration
	RotationInterval time.Duration

	// StaleAfter is the age past which a stored reading is logged as stale.
	// Kinds without an entry are never reported.
	StaleAfter map[metrics.Kind]time.Duration
}

func DefaultConfig() Config {
	return Config{
		RenderInterval:   DefaultRenderInterval,
		RotationInterval: DefaultRotationInterval,
	}
}

// Scheduler pushes a freshly formatted line to its sink on every render
// tick and advances the rotation cursor on every rotation tick. The cursor is
// owned by the goroutine calling Run.
type Scheduler struct {
	store    metrics.Store
	prefs    prefs.Source
	policies metrics.Policies
	sink     Sink
	cfg      Config
	log      logger.Logger

	now   func() time.Time
	stale map[metrics.Kind]bool

	cursor int
	last   string
}

func NewScheduler(store metrics.Store, src prefs.Source, policies metrics.Policies, sink Sink, cfg Config) *Scheduler {
	if cfg.RenderInterval <= 0 {
		cfg.RenderInterval = DefaultRenderInterval
	}
	if cfg.RotationInterval <= 0 {
		cfg.RotationInterval = DefaultRotationInterval
	}

	return &Scheduler{
		store:    store,
		prefs:    src,
		policies: policies,
		sink:     sink,
		cfg:      cfg,
		log:      logger.For("render"),
		now:      time.Now,
		stale:    make(map[metrics.Kind]bool, len(metrics.Kinds)),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	renderTicker := time.NewTicker(s.cfg.RenderInterval)
	defer renderTicker.Stop()
	rotationTicker := time.NewTicker(s.cfg.RotationInterval)
	defer rotationTicker.Stop()

	s.Render()

	for {
		select {
		case <-ctx.Done():
			return
		case <-renderTicker.C:
			s.Render()
		case <-rotationTicker.C:
			s.Rotate()
		}
	}
}

// Render formats the current state and hands it to the sink.
func (s *Scheduler) Render() string {
	snap := s.store.Read()
	s.checkStaleness(snap)
	cfg := s.prefs.Current()
	s.cursor %= visibleCount(cfg)

	text := Format(cfg, metrics.ClassifySnapshot(snap, s.policies), s.cursor)

	if err := s.sink.SetTitle(text); err != nil {
		s.log.Debug().Err(err).Msg("Sink rejected status line")
	}

	if text != s.last {
		s.log.Debug().Str("text", text).Int("cursor", s.cursor).Msg("Status line changed")
		s.last = text
	}

	return text
}

// checkStaleness logs a reading once when it ages past its limit and again
// when a fresh write brings it back.
func (s *Scheduler) checkStaleness(snap metrics.Snapshot) {
	now := s.now()

	for _, kind := range metrics.Kinds {
		limit, ok := s.cfg.StaleAfter[kind]
		updated, seen := snap.UpdatedAt[kind]
		if !ok || limit <= 0 || !seen {
			continue
		}

		age := now.Sub(updated)
		stale := age > limit
		if stale == s.stale[kind] {
			continue
		}
		s.stale[kind] = stale

		if stale {
			s.log.Debug().Str("kind", kind.String()).Dur("age", age).Msg("Reading is stale")
		} else {
			s.log.Debug().Str("kind", kind.String()).Msg("Reading is fresh again")
		}
	}
}

// Rotate advances the cursor modulo the visible count, whatever the mode.
func (s *Scheduler) Rotate() int {
	s.cursor = (s.cursor + 1) % visibleCount(s.prefs.Current())

	return s.cursor
}

// Cursor returns the rotation position.
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// visibleCount is the rotation modulus, never below one.
func visibleCount(cfg prefs.DisplayConfig) int {
	if n := len(cfg.Visible()); n > 0 {
		return n
	}

	return 1
}
