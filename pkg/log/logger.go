// Package log provides the structured logging used across sigil.
package log

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger is the logging interface sigil components accept.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger carrying extra fields on every entry.
	With(fields ...Field) Logger

	// WithComponent tags entries with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

var defaultLogger = NewLogger()

// GetDefaultLogger returns the process-wide logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// NewNopLogger returns a logger that discards everything. Used in tests.
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (*nopLogger) Debug(string, ...Field)        {}
func (*nopLogger) Info(string, ...Field)         {}
func (*nopLogger) Warn(string, ...Field)         {}
func (*nopLogger) Error(string, ...Field)        {}
func (n *nopLogger) With(...Field) Logger        { return n }
func (n *nopLogger) WithComponent(string) Logger { return n }
func (*nopLogger) SetLevel(Level)                {}
func (*nopLogger) GetLevel() Level               { return ErrorLevel }
