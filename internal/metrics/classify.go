package metrics

import "codeberg.org/mutker/vitalmon/internal/errors"

// Thresholds are the lower bounds of the Normal, Warning and Critical levels.
type Thresholds struct {
	Normal   float64
	Warning  float64
	Critical float64
}

// NewThresholds returns thresholds after checking normal <= warning <= critical.
func NewThresholds(normal, warning, critical float64) (Thresholds, error) {
	t := Thresholds{Normal: normal, Warning: warning, Critical: critical}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}

	return t, nil
}

// Validate reports whether the boundaries are ascending.
func (t Thresholds) Validate() error {
	if t.Normal > t.Warning || t.Warning > t.Critical {
		return errors.New().WithData(ErrInvalidThresholds, t)
	}

	return nil
}

// Classify maps value onto an alert level.
func Classify(value float64, t Thresholds) AlertLevel {
	switch {
	case value < t.Normal:
		return LevelSafe
	case value < t.Warning:
		return LevelNormal
	case value < t.Critical:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// Policies holds the thresholds of every metric kind.
type Policies struct {
	CPU     Thresholds
	Memory  Thresholds
	Network Thresholds
}

// DefaultPolicies returns the built-in thresholds.
func DefaultPolicies() Policies {
	return Policies{
		CPU:     Thresholds{Normal: 50, Warning: 75, Critical: 90},
		Memory:  Thresholds{Normal: 60, Warning: 75, Critical: 90},
		Network: Thresholds{Normal: 50, Warning: 200, Critical: 450},
	}
}

// For returns the thresholds of kind.
func (p Policies) For(kind Kind) Thresholds {
	switch kind {
	case KindMemory:
		return p.Memory
	case KindNetwork:
		return p.Network
	default:
		return p.CPU
	}
}

// Validate checks every threshold set.
func (p Policies) Validate() error {
	for _, kind := range Kinds {
		if err := p.For(kind).Validate(); err != nil {
			return errors.New().Wrap(ErrInvalidThresholds, err).WithMessage("invalid " + kind.String() + " thresholds")
		}
	}

	return nil
}

// ClassifySnapshot derives the classified view of s. Absent readings stay absent.
func ClassifySnapshot(s Snapshot, p Policies) ClassifiedSnapshot {
	var cs ClassifiedSnapshot

	if s.CPU != nil {
		v := s.CPU.Clamp()
		cs.CPU = &Metric[Percent]{Value: v, Level: Classify(float64(v), p.CPU)}
	}
	if s.Memory != nil {
		v := s.Memory.Clamp()
		cs.Memory = &Metric[Percent]{Value: v, Level: Classify(float64(v), p.Memory)}
	}
	if s.Network != nil {
		v := s.Network.Clamp()
		cs.Network = &Metric[Millisecond]{Value: v, Level: Classify(float64(v), p.Network)}
	}

	return cs
}
