package analyzer

import "fmt"

// Logger is an interface for logging.
// CUSTOMIZATION: Implement this interface with your preferred logging library.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// defaultLogger is a simple logger that prints to stdout, dropping
// messages below its configured level.
type defaultLogger struct {
	min int
}

// levelRank orders the level names; unknown names fall back to info.
func levelRank(level string) int {
	switch level {
	case "debug":
		return 0
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// NewDefaultLogger returns a stdout logger printing everything.
func NewDefaultLogger() Logger {
	return &defaultLogger{}
}

// NewLeveledLogger returns a stdout logger that drops messages below
// level ("debug", "info", "warn", "error").
func NewLeveledLogger(level string) Logger {
	return &defaultLogger{min: levelRank(level)}
}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	if l.min <= 0 {
		fmt.Printf("[DEBUG] "+msg+"\n", args...)
	}
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	if l.min <= 1 {
		fmt.Printf("[INFO] "+msg+"\n", args...)
	}
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	if l.min <= 2 {
		fmt.Printf("[WARN] "+msg+"\n", args...)
	}
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	if l.min <= 3 {
		fmt.Printf("[ERROR] "+msg+"\n", args...)
	}
}
