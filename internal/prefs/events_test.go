package prefs

import (
	"testing"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVisibilityCombinations(t *testing.T) {
	tests := []struct {
		event        Event
		cpu, mem, nw bool
	}{
		{EventShowCPU, true, false, false},
		{EventShowMem, false, true, false},
		{EventShowNW, false, false, true},
		{EventShowCPUMem, true, true, false},
		{EventShowMemNW, false, true, true},
		{EventShowCPUNW, true, false, true},
		{EventShowAll, true, true, true},
	}

	for _, tt := range tests {
		start := DisplayConfig{Mode: ModeRotation, IsAlert: true}
		got := Apply(start, tt.event)

		assert.Equal(t, tt.cpu, got.ShowCPU, tt.event)
		assert.Equal(t, tt.mem, got.ShowMem, tt.event)
		assert.Equal(t, tt.nw, got.ShowNW, tt.event)
		assert.Equal(t, ModeRotation, got.Mode, "mode untouched by %s", tt.event)
		assert.True(t, got.IsAlert, "alert untouched by %s", tt.event)
	}
}

func TestApplyToggles(t *testing.T) {
	c := Default()

	c = Apply(c, EventToggleMem)
	assert.False(t, c.ShowMem)
	assert.True(t, c.ShowCPU)

	c = Apply(c, EventToggleMem)
	assert.True(t, c.ShowMem)

	c = Apply(c, EventToggleAlert)
	assert.False(t, c.IsAlert)

	c = Apply(c, EventModeRotation)
	assert.Equal(t, ModeRotation, c.Mode)
	c = Apply(c, EventModeList)
	assert.Equal(t, ModeList, c.Mode)
}

func TestApplyExitIsNoop(t *testing.T) {
	assert.Equal(t, Default(), Apply(Default(), EventExit))
}

func TestParseEvent(t *testing.T) {
	for _, e := range Events {
		got, err := ParseEvent(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	_, err := ParseEvent("show_gpu")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrUnknownEvent))
}
