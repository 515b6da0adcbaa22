package metrics

import "time"

// Store holds the latest known reading per metric. Implementations own their
// locking; callers only ever see copies.
type Store interface {
	Read() Snapshot
	Write(kind Kind, value float64)
}

// Snapshot is the latest raw reading per metric. A nil field means no read
// has succeeded yet. Fields are written independently and carry no
// cross-field consistency.
type Snapshot struct {
	CPU     *Percent
	Memory  *Percent
	Network *Millisecond

	UpdatedAt map[Kind]time.Time
}

// ClassifiedSnapshot pairs every present reading with its alert level.
type ClassifiedSnapshot struct {
	CPU     *Metric[Percent]
	Memory  *Metric[Percent]
	Network *Metric[Millisecond]
}

// Metric is a value with the alert level derived from it.
type Metric[V Percent | Millisecond] struct {
	Value V
	Level AlertLevel
}
