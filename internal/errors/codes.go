package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Metric read errors
	ErrReadSpawn       ErrorCode = "read_spawn_failed"
	ErrReadNonZeroExit ErrorCode = "read_non_zero_exit"
	ErrReadParse       ErrorCode = "read_parse_failed"
	ErrReadTimeout     ErrorCode = "read_timeout"
	ErrReadIO          ErrorCode = "read_io_failed"

	// Preference errors
	ErrLoadPrefs  ErrorCode = "load_preferences_failed"
	ErrSavePrefs  ErrorCode = "save_preferences_failed"
	ErrUnknownEvt ErrorCode = "unknown_event"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrReadSpawn:       "Failed to start metric command",
	ErrReadNonZeroExit: "Metric command exited with non-zero status",
	ErrReadParse:       "Failed to parse metric output",
	ErrReadTimeout:     "Metric read timed out",
	ErrReadIO:          "Metric read I/O failure",
	ErrLoadPrefs:       "Failed to load display preferences",
	ErrSavePrefs:       "Failed to save display preferences",
	ErrUnknownEvt:      "Unknown UI event",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
