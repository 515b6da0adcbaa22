package reader

import (
	"context"
	"net"
	"os/exec"
	"testing"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFreePercentage(t *testing.T) {
	out := "The system has 17179869184 (4194304 pages with a page size of 4096).\n" +
		"System-wide memory free percentage: 61%\n"

	p, err := parseFreePercentage(out)
	require.NoError(t, err)
	assert.InDelta(t, 39.0, float64(p), 0.001)
}

func TestParseFreePercentageErrors(t *testing.T) {
	_, err := parseFreePercentage("nothing to see here")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrParse))

	_, err = parseFreePercentage("free: abc%")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrParse))
}

func TestParseFreePercentageRejectsNonFinite(t *testing.T) {
	for _, out := range []string{"free: NaN%", "free: Inf%", "free: -Inf%"} {
		_, err := parseFreePercentage(out)
		require.Error(t, err, out)
		assert.True(t, errors.HasCode(err, ErrParse), out)
	}
}

func TestParseFreePercentageClamps(t *testing.T) {
	p, err := parseFreePercentage("free percentage: 140%")
	require.NoError(t, err)
	assert.Equal(t, metrics.Percent(0), p)
}

func TestNewSystemDefaults(t *testing.T) {
	s := NewSystem(Config{})
	assert.Equal(t, DefaultProbeAddress, s.cfg.ProbeAddress)
	assert.Equal(t, DefaultCPUSampleWindow, s.cfg.CPUSampleWindow)
}

func TestReadNetworkLatency(t *testing.T) {
	s := NewSystem(DefaultConfig())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(180 * time.Millisecond)
	}

	var dialed string
	s.dial = func(_ context.Context, _, address string) (net.Conn, error) {
		dialed = address
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}

	ms, err := s.ReadNetworkLatency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, metrics.Millisecond(180), ms)
	assert.Equal(t, DefaultProbeAddress, dialed)
}

func TestReadNetworkLatencyTimeout(t *testing.T) {
	s := NewSystem(DefaultConfig())
	s.dial = func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.ReadNetworkLatency(ctx)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTimeout))
}

func TestReadNetworkLatencyRefused(t *testing.T) {
	s := NewSystem(DefaultConfig())
	s.dial = func(context.Context, string, string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: assert.AnError}
	}

	_, err := s.ReadNetworkLatency(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrIO))
}

func TestClassifyCommandError(t *testing.T) {
	ctx := context.Background()

	_, err := exec.CommandContext(ctx, "vitalmon-no-such-command").Output()
	require.Error(t, err)
	assert.True(t, errors.HasCode(classifyCommandError(ctx, "x", err), ErrSpawn))

	if _, lookErr := exec.LookPath("false"); lookErr == nil {
		_, err = exec.CommandContext(ctx, "false").Output()
		require.Error(t, err)
		assert.True(t, errors.HasCode(classifyCommandError(ctx, "false", err), ErrNonZeroExit))
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.True(t, errors.HasCode(classifyCommandError(cancelled, "x", assert.AnError), ErrTimeout))
}
