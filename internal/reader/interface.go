// Package reader produces raw metric values from the host.
package reader

import (
	"context"
	"time"

	"codeberg.org/mutker/vitalmon/internal/metrics"
)

// Reader produces one raw reading per call. Every method is independently
// fallible; failures are coded with the read_* error codes.
type Reader interface {
	ReadCPUPercent(ctx context.Context) (metrics.Percent, error)
	ReadMemoryPressurePercent(ctx context.Context) (metrics.Percent, error)
	ReadNetworkLatency(ctx context.Context) (metrics.Millisecond, error)
}

// Config tunes the system reader.
type Config struct {
	// ProbeAddress is the host:port dialled to measure round-trip latency.
	ProbeAddress string
	// CPUSampleWindow is the delta window used for CPU utilisation.
	CPUSampleWindow time.Duration
}

const (
	DefaultProbeAddress    = "1.1.1.1:443"
	DefaultCPUSampleWindow = 120 * time.Millisecond
)

func DefaultConfig() Config {
	return Config{
		ProbeAddress:    DefaultProbeAddress,
		CPUSampleWindow: DefaultCPUSampleWindow,
	}
}
