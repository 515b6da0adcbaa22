// Package poller runs one independent acquisition loop per metric.
package poller

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"codeberg.org/mutker/vitalmon/internal/reader"
)

// Schedule is the cadence and per-read timeout of one metric.
type Schedule struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Config holds the schedule of every metric.
type Config struct {
	CPU     Schedule
	Memory  Schedule
	Network Schedule
}

func DefaultConfig() Config {
	return Config{
		CPU:     Schedule{Interval: time.Second, Timeout: 2 * time.Second},
		Memory:  Schedule{Interval: time.Second, Timeout: 2 * time.Second},
		Network: Schedule{Interval: 3 * time.Second, Timeout: 2 * time.Second},
	}
}

func (c Config) For(kind metrics.Kind) Schedule {
	switch kind {
	case metrics.KindMemory:
		return c.Memory
	case metrics.KindNetwork:
		return c.Network
	default:
		return c.CPU
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	for _, kind := range metrics.Kinds {
		s := c.For(kind)
		if s.Interval <= 0 || s.Timeout <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval, struct {
				Kind     string
				Interval time.Duration
				Timeout  time.Duration
			}{
				Kind:     kind.String(),
				Interval: s.Interval,
				Timeout:  s.Timeout,
			})
		}
	}

	return nil
}

// Poller writes successful readings into a Store. Failed reads leave the
// previous value in place; the next tick is the retry.
type Poller struct {
	reader reader.Reader
	store  metrics.Store
	cfg    Config
	log    logger.Logger
}

func New(r reader.Reader, store metrics.Store, cfg Config) *Poller {
	return &Poller{
		reader: r,
		store:  store,
		cfg:    cfg,
		log:    logger.For("poller"),
	}
}

// Run starts the three loops and blocks until ctx is cancelled and every
// loop has returned.
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, kind := range metrics.Kinds {
		wg.Add(1)
		go func(kind metrics.Kind) {
			defer wg.Done()
			p.loop(ctx, kind)
		}(kind)
	}

	wg.Wait()
}

func (p *Poller) loop(ctx context.Context, kind metrics.Kind) {
	sched := p.cfg.For(kind)
	ticker := time.NewTicker(sched.Interval)
	defer ticker.Stop()

	p.log.Debug().
		Str("kind", kind.String()).
		Dur("interval", sched.Interval).
		Dur("timeout", sched.Timeout).
		Msg("Acquisition loop started")

	// The first read happens at start, then once per tick.
	p.pollAndLog(ctx, kind)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAndLog(ctx, kind)
		}
	}
}

func (p *Poller) pollAndLog(ctx context.Context, kind metrics.Kind) {
	if err := p.Poll(ctx, kind); err != nil && ctx.Err() == nil {
		p.log.Debug().
			Str("kind", kind.String()).
			Str("error_code", string(errors.CodeOf(err))).
			Err(err).
			Msg("Read failed, keeping last value")
	}
}

// Poll performs a single read of kind under its timeout and stores the value
// on success.
func (p *Poller) Poll(ctx context.Context, kind metrics.Kind) error {
	readCtx, cancel := context.WithTimeout(ctx, p.cfg.For(kind).Timeout)
	defer cancel()

	value, err := p.read(readCtx, kind)
	if err != nil {
		return err
	}

	p.store.Write(kind, value)

	return nil
}

func (p *Poller) read(ctx context.Context, kind metrics.Kind) (float64, error) {
	switch kind {
	case metrics.KindCPU:
		v, err := p.reader.ReadCPUPercent(ctx)
		return float64(v), err
	case metrics.KindMemory:
		v, err := p.reader.ReadMemoryPressurePercent(ctx)
		return float64(v), err
	case metrics.KindNetwork:
		v, err := p.reader.ReadNetworkLatency(ctx)
		return float64(v), err
	default:
		return 0, errors.New().WithData(errors.ErrInvalidArgument, kind.String())
	}
}
