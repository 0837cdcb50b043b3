package domain

import "strings"

// VertexStatus is the lifecycle state of a planned node during a run.
type VertexStatus string

const (
	// VertexStatusPending indicates the node is planned but has not started.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the node's recipe is executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates every command of the recipe succeeded.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates a command of the recipe failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates no work was needed because the file already exists.
	VertexStatusCached VertexStatus = "cached"
	// VertexStatusSkipped indicates the node never ran because an earlier node failed.
	VertexStatusSkipped VertexStatus = "skipped"
)

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values decode as pending.
func (s *VertexStatus) UnmarshalText(text []byte) error {
	*s = NormalizeVertexStatus(string(text))
	return nil
}

// NormalizeVertexStatus converts a string to a VertexStatus, defaulting to pending if unknown.
func NormalizeVertexStatus(s string) VertexStatus {
	switch status := VertexStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case VertexStatusPending, VertexStatusRunning, VertexStatusCompleted,
		VertexStatusFailed, VertexStatusCached, VertexStatusSkipped:
		return status
	default:
		return VertexStatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
