package metrics

import (
	"fmt"
	"math"
)

// Kind enumerates the tracked metrics.
type Kind int

const (
	KindCPU Kind = iota
	KindMemory
	KindNetwork
)

// Kinds lists every metric in display order.
var Kinds = []Kind{KindCPU, KindMemory, KindNetwork}

func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "mem"
	case KindNetwork:
		return "nw"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Percent is a utilization or pressure measurement in [0,100].
type Percent float64

// Clamp bounds p to [0,100]. NaN becomes 0.
func (p Percent) Clamp() Percent {
	if math.IsNaN(float64(p)) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}

	return p
}

// Millisecond is a non-negative latency measurement.
type Millisecond float64

// Clamp bounds m below at zero. NaN becomes 0.
func (m Millisecond) Clamp() Millisecond {
	if math.IsNaN(float64(m)) || m < 0 {
		return 0
	}

	return m
}

// AlertLevel is ordered Safe < Normal < Warning < Critical.
type AlertLevel int

const (
	LevelSafe AlertLevel = iota
	LevelNormal
	LevelWarning
	LevelCritical
)

func (l AlertLevel) String() string {
	switch l {
	case LevelSafe:
		return "safe"
	case LevelNormal:
		return "normal"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}
