// Package prefs owns the user's display preferences.
package prefs

import (
	"encoding/json"
	"fmt"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
)

// DisplayMode selects how visible metrics are laid out.
type DisplayMode int

const (
	ModeList DisplayMode = iota
	ModeRotation
)

func (m DisplayMode) String() string {
	switch m {
	case ModeList:
		return "List"
	case ModeRotation:
		return "Rotation"
	default:
		return fmt.Sprintf("DisplayMode(%d)", int(m))
	}
}

func (m DisplayMode) MarshalText() ([]byte, error) {
	switch m {
	case ModeList, ModeRotation:
		return []byte(m.String()), nil
	default:
		return nil, errors.New().WithData(ErrInvalidMode, int(m))
	}
}

func (m *DisplayMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "List":
		*m = ModeList
	case "Rotation":
		*m = ModeRotation
	default:
		return errors.New().WithData(ErrInvalidMode, string(text))
	}

	return nil
}

// DisplayConfig is the persisted preference record.
type DisplayConfig struct {
	ShowCPU bool        `json:"show_cpu"`
	ShowMem bool        `json:"show_mem"`
	ShowNW  bool        `json:"show_nw"`
	Mode    DisplayMode `json:"mode"`
	IsAlert bool        `json:"is_alert"`
}

// Default shows every metric as a list with alert icons.
func Default() DisplayConfig {
	return DisplayConfig{
		ShowCPU: true,
		ShowMem: true,
		ShowNW:  true,
		Mode:    ModeList,
		IsAlert: true,
	}
}

// Shows reports whether kind is visible.
func (c DisplayConfig) Shows(kind metrics.Kind) bool {
	switch kind {
	case metrics.KindCPU:
		return c.ShowCPU
	case metrics.KindMemory:
		return c.ShowMem
	case metrics.KindNetwork:
		return c.ShowNW
	default:
		return false
	}
}

// Visible returns the visible kinds in display order.
func (c DisplayConfig) Visible() []metrics.Kind {
	kinds := make([]metrics.Kind, 0, len(metrics.Kinds))
	for _, k := range metrics.Kinds {
		if c.Shows(k) {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Marshal encodes c as the persisted JSON record.
func Marshal(c DisplayConfig) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrSavePrefs, err)
	}

	return data, nil
}

// Unmarshal decodes a persisted JSON record. Fields missing from data keep
// their default values.
func Unmarshal(data []byte) (DisplayConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return DisplayConfig{}, errors.New().Wrap(errors.ErrLoadPrefs, err)
	}

	return c, nil
}
