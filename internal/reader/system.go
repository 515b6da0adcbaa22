package reader

import (
	"context"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"github.com/shirou/gopsutil/v4/cpu"
)

// System reads metrics from the local host.
type System struct {
	cfg  Config
	dial func(ctx context.Context, network, address string) (net.Conn, error)
	now  func() time.Time
}

// NewSystem returns a Reader backed by the local host.
func NewSystem(cfg Config) *System {
	if cfg.ProbeAddress == "" {
		cfg.ProbeAddress = DefaultProbeAddress
	}
	if cfg.CPUSampleWindow <= 0 {
		cfg.CPUSampleWindow = DefaultCPUSampleWindow
	}

	var d net.Dialer

	return &System{
		cfg:  cfg,
		dial: d.DialContext,
		now:  time.Now,
	}
}

func (s *System) ReadCPUPercent(ctx context.Context) (metrics.Percent, error) {
	errFactory := errors.New()

	pcts, err := cpu.PercentWithContext(ctx, s.cfg.CPUSampleWindow, false)
	if err != nil {
		if ctx.Err() != nil {
			return 0, errFactory.Wrap(ErrTimeout, err)
		}
		return 0, errFactory.Wrap(ErrIO, err)
	}
	if len(pcts) == 0 {
		return 0, errFactory.WithData(ErrParse, "no cpu totals reported")
	}

	return metrics.Percent(pcts[0]).Clamp(), nil
}

func (s *System) ReadMemoryPressurePercent(ctx context.Context) (metrics.Percent, error) {
	return readMemoryPressure(ctx)
}

// ReadNetworkLatency measures the time to complete a TCP handshake with the
// probe address.
func (s *System) ReadNetworkLatency(ctx context.Context) (metrics.Millisecond, error) {
	start := s.now()

	conn, err := s.dial(ctx, "tcp", s.cfg.ProbeAddress)
	if err != nil {
		return 0, classifyDialError(ctx, err)
	}
	elapsed := s.now().Sub(start)
	_ = conn.Close()

	return metrics.Millisecond(float64(elapsed) / float64(time.Millisecond)), nil
}

// parseFreePercentage extracts the free percentage from `memory_pressure -Q`
// output, e.g. "System-wide memory free percentage: 61%", and converts it to
// pressure.
func parseFreePercentage(out string) (metrics.Percent, error) {
	errFactory := errors.New()

	for _, field := range strings.Fields(out) {
		if !strings.HasSuffix(field, "%") {
			continue
		}

		free, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
		if err != nil {
			return 0, errFactory.Wrap(ErrParse, err).WithData(field)
		}
		if math.IsNaN(free) || math.IsInf(free, 0) {
			return 0, errFactory.WithData(ErrParse, field)
		}

		return metrics.Percent(100 - free).Clamp(), nil
	}

	return 0, errFactory.WithData(ErrParse, "percent not found")
}
