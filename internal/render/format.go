// Package render turns the metrics store and display preferences into the
// status line.
package render

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/vitalmon/internal/metrics"
	"codeberg.org/mutker/vitalmon/internal/prefs"
)

// Placeholder is shown in rotation mode when no metric is visible.
const Placeholder = "..."

const missingValue = "--"

type item struct {
	label string
	unit  string
}

var items = map[metrics.Kind]item{
	metrics.KindCPU:     {label: "CPU", unit: "%"},
	metrics.KindMemory:  {label: "Mem", unit: "%"},
	metrics.KindNetwork: {label: "NW", unit: "ms"},
}

// Icon returns the inline alert icon of a level.
func Icon(level metrics.AlertLevel) string {
	switch level {
	case metrics.LevelSafe:
		return "🟢"
	case metrics.LevelNormal:
		return "🟡"
	case metrics.LevelWarning:
		return "🟠"
	default:
		return "🔴"
	}
}

// reading extracts the value and level of kind, ok is false when absent.
func reading(cs metrics.ClassifiedSnapshot, kind metrics.Kind) (value float64, level metrics.AlertLevel, ok bool) {
	switch kind {
	case metrics.KindCPU:
		if cs.CPU != nil {
			return float64(cs.CPU.Value), cs.CPU.Level, true
		}
	case metrics.KindMemory:
		if cs.Memory != nil {
			return float64(cs.Memory.Value), cs.Memory.Level, true
		}
	case metrics.KindNetwork:
		if cs.Network != nil {
			return float64(cs.Network.Value), cs.Network.Level, true
		}
	}

	return 0, 0, false
}

// FormatItem renders one metric as "<icon> <label> <value><unit>", or
// "<label> --" when it has no value.
func FormatItem(cs metrics.ClassifiedSnapshot, kind metrics.Kind, withIcon bool) string {
	it := items[kind]

	value, level, ok := reading(cs, kind)
	if !ok {
		return it.label + " " + missingValue
	}

	text := fmt.Sprintf("%s %.0f%s", it.label, value, it.unit)
	if withIcon {
		return Icon(level) + " " + text
	}

	return text
}

// Items renders every visible metric in display order.
func Items(cfg prefs.DisplayConfig, cs metrics.ClassifiedSnapshot) []string {
	visible := cfg.Visible()
	out := make([]string, 0, len(visible))
	for _, kind := range visible {
		out = append(out, FormatItem(cs, kind, cfg.IsAlert))
	}

	return out
}

// Format builds the status line for cfg. cursor is only used in rotation
// mode and is reduced modulo the number of visible items.
func Format(cfg prefs.DisplayConfig, cs metrics.ClassifiedSnapshot, cursor int) string {
	parts := Items(cfg, cs)

	if cfg.Mode == prefs.ModeRotation {
		if len(parts) == 0 {
			return Placeholder
		}
		if cursor < 0 {
			cursor = 0
		}
		return parts[cursor%len(parts)]
	}

	return strings.Join(parts, " ")
}
