package metrics

import "codeberg.org/mutker/vitalmon/internal/errors"

const (
	ErrInvalidThresholds = errors.ErrorCode("metrics_invalid_thresholds")
)
