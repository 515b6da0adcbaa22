package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu      sync.Mutex
	cpu     metrics.Percent
	mem     metrics.Percent
	nw      metrics.Millisecond
	cpuErr  error
	memErr  error
	nwErr   error
	nwBlock bool

	cpuCalls atomic.Int32
}

func (f *fakeReader) ReadCPUPercent(context.Context) (metrics.Percent, error) {
	f.cpuCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpu, f.cpuErr
}

func (f *fakeReader) ReadMemoryPressurePercent(context.Context) (metrics.Percent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem, f.memErr
}

func (f *fakeReader) ReadNetworkLatency(ctx context.Context) (metrics.Millisecond, error) {
	f.mu.Lock()
	block, v, err := f.nwBlock, f.nw, f.nwErr
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return 0, errors.New().Wrap(errors.ErrReadTimeout, ctx.Err())
	}
	return v, err
}

func fastConfig() Config {
	s := Schedule{Interval: 5 * time.Millisecond, Timeout: 20 * time.Millisecond}
	return Config{CPU: s, Memory: s, Network: s}
}

func TestPollStoresSuccess(t *testing.T) {
	r := &fakeReader{cpu: 42, mem: 61, nw: 180}
	store := metrics.NewStore()
	p := New(r, store, DefaultConfig())

	for _, kind := range metrics.Kinds {
		require.NoError(t, p.Poll(context.Background(), kind))
	}

	s := store.Read()
	assert.Equal(t, metrics.Percent(42), *s.CPU)
	assert.Equal(t, metrics.Percent(61), *s.Memory)
	assert.Equal(t, metrics.Millisecond(180), *s.Network)
}

func TestFailedReadKeepsLastValue(t *testing.T) {
	r := &fakeReader{nw: 120}
	store := metrics.NewStore()
	p := New(r, store, DefaultConfig())

	require.NoError(t, p.Poll(context.Background(), metrics.KindNetwork))

	r.mu.Lock()
	r.nwErr = errors.New().New(errors.ErrReadTimeout)
	r.nw = 999
	r.mu.Unlock()

	err := p.Poll(context.Background(), metrics.KindNetwork)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadTimeout))

	s := store.Read()
	require.NotNil(t, s.Network, "failed read must not clear the value")
	assert.Equal(t, metrics.Millisecond(120), *s.Network)
}

func TestFailedFirstReadStaysAbsent(t *testing.T) {
	r := &fakeReader{memErr: errors.New().New(errors.ErrReadSpawn)}
	store := metrics.NewStore()
	p := New(r, store, DefaultConfig())

	require.Error(t, p.Poll(context.Background(), metrics.KindMemory))
	assert.Nil(t, store.Read().Memory)
}

func TestPollEnforcesTimeout(t *testing.T) {
	r := &fakeReader{nwBlock: true}
	cfg := DefaultConfig()
	cfg.Network.Timeout = 10 * time.Millisecond
	p := New(r, metrics.NewStore(), cfg)

	start := time.Now()
	err := p.Poll(context.Background(), metrics.KindNetwork)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHungNetworkDoesNotBlockCPU(t *testing.T) {
	r := &fakeReader{cpu: 10, mem: 20, nwBlock: true}
	cfg := fastConfig()
	cfg.Network.Timeout = time.Hour
	store := metrics.NewStore()
	p := New(r, store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return r.cpuCalls.Load() >= 5
	}, 2*time.Second, 5*time.Millisecond)

	s := store.Read()
	assert.NotNil(t, s.CPU)
	assert.NotNil(t, s.Memory)
	assert.Nil(t, s.Network)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestRunReadsImmediately(t *testing.T) {
	r := &fakeReader{cpu: 30, mem: 40, nw: 50}
	cfg := DefaultConfig()
	cfg.CPU.Interval = time.Hour
	cfg.Memory.Interval = time.Hour
	cfg.Network.Interval = time.Hour
	store := metrics.NewStore()
	p := New(r, store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		s := store.Read()
		return s.CPU != nil && s.Memory != nil && s.Network != nil
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, r.cpuCalls.Load())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Memory.Interval = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}
