package prefs

import "codeberg.org/mutker/vitalmon/internal/errors"

// Event is a named UI action.
type Event string

const (
	EventShowCPU      Event = "show_cpu"
	EventShowMem      Event = "show_mem"
	EventShowNW       Event = "show_nw"
	EventShowCPUMem   Event = "show_cpu_mem"
	EventShowMemNW    Event = "show_mem_nw"
	EventShowCPUNW    Event = "show_cpu_nw"
	EventShowAll      Event = "show_all"
	EventToggleCPU    Event = "toggle_cpu"
	EventToggleMem    Event = "toggle_mem"
	EventToggleNW     Event = "toggle_nw"
	EventModeList     Event = "mode_list"
	EventModeRotation Event = "mode_rotation"
	EventToggleAlert  Event = "toggle_alert"
	EventExit         Event = "exit"
)

// Events lists every known event.
var Events = []Event{
	EventShowCPU, EventShowMem, EventShowNW,
	EventShowCPUMem, EventShowMemNW, EventShowCPUNW, EventShowAll,
	EventToggleCPU, EventToggleMem, EventToggleNW,
	EventModeList, EventModeRotation,
	EventToggleAlert,
	EventExit,
}

// ParseEvent validates a raw event name.
func ParseEvent(name string) (Event, error) {
	for _, e := range Events {
		if string(e) == name {
			return e, nil
		}
	}

	return "", errors.New().WithData(ErrUnknownEvent, name)
}

// visibility sets the three flags at once.
func visibility(c *DisplayConfig, cpu, mem, nw bool) {
	c.ShowCPU, c.ShowMem, c.ShowNW = cpu, mem, nw
}

// Apply returns c mutated by e. Exit and unknown events leave c unchanged.
func Apply(c DisplayConfig, e Event) DisplayConfig {
	switch e {
	case EventShowCPU:
		visibility(&c, true, false, false)
	case EventShowMem:
		visibility(&c, false, true, false)
	case EventShowNW:
		visibility(&c, false, false, true)
	case EventShowCPUMem:
		visibility(&c, true, true, false)
	case EventShowMemNW:
		visibility(&c, false, true, true)
	case EventShowCPUNW:
		visibility(&c, true, false, true)
	case EventShowAll:
		visibility(&c, true, true, true)
	case EventToggleCPU:
		c.ShowCPU = !c.ShowCPU
	case EventToggleMem:
		c.ShowMem = !c.ShowMem
	case EventToggleNW:
		c.ShowNW = !c.ShowNW
	case EventModeList:
		c.Mode = ModeList
	case EventModeRotation:
		c.Mode = ModeRotation
	case EventToggleAlert:
		c.IsAlert = !c.IsAlert
	}

	return c
}
