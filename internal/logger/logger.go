package logger

import (
	"sync"
)

// Log levels accepted in config (log_level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The level is honoured on the first
// call only; later calls return the already built instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Used by tests and CLI
// subcommands that print their own output.
func Nop() *Logger {
	return newNopLogger()
}
