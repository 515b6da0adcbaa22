// Package ui connects the external menu widget to the preference controller.
package ui

import (
	"sort"
	"sync"

	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/prefs"
)

// Menu mirrors the check marks of the tray menu. Every checkable item is
// keyed by the event it sends.
type Menu struct {
	mu      sync.RWMutex
	checked map[prefs.Event]bool
	log     logger.Logger
}

// NewMenu returns a menu reflecting cfg.
func NewMenu(cfg prefs.DisplayConfig) *Menu {
	return &Menu{
		checked: checks(cfg),
		log:     logger.For("ui"),
	}
}

// checks derives the check state of every item. Combination items are
// checked only when the visible set matches them exactly.
func checks(cfg prefs.DisplayConfig) map[prefs.Event]bool {
	only := func(cpu, mem, nw bool) bool {
		return cfg.ShowCPU == cpu && cfg.ShowMem == mem && cfg.ShowNW == nw
	}

	return map[prefs.Event]bool{
		prefs.EventShowCPU:      only(true, false, false),
		prefs.EventShowMem:      only(false, true, false),
		prefs.EventShowNW:       only(false, false, true),
		prefs.EventShowCPUMem:   only(true, true, false),
		prefs.EventShowMemNW:    only(false, true, true),
		prefs.EventShowCPUNW:    only(true, false, true),
		prefs.EventShowAll:      only(true, true, true),
		prefs.EventToggleCPU:    cfg.ShowCPU,
		prefs.EventToggleMem:    cfg.ShowMem,
		prefs.EventToggleNW:     cfg.ShowNW,
		prefs.EventModeList:     cfg.Mode == prefs.ModeList,
		prefs.EventModeRotation: cfg.Mode == prefs.ModeRotation,
		prefs.EventToggleAlert:  cfg.IsAlert,
	}
}

// Sync implements prefs.Syncer.
func (m *Menu) Sync(cfg prefs.DisplayConfig) error {
	next := checks(cfg)

	m.mu.Lock()
	m.checked = next
	m.mu.Unlock()

	items := m.CheckedItems()
	names := make([]string, len(items))
	for i, e := range items {
		names[i] = string(e)
	}
	m.log.Debug().Strs("checked", names).Msg("Menu checks synced")

	return nil
}

// CheckedItems lists the checked items in name order.
func (m *Menu) CheckedItems() []prefs.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []prefs.Event
	for e, on := range m.checked {
		if on {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
