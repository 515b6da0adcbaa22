package logger

import "codeberg.org/mutker/vitalmon/internal/errors"

// Logger defines the interface for component-scoped logging.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}
