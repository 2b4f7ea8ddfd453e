// Package debug provides the process-wide logger for jv.
//
// Messages at info level and above are always written. Debug messages are
// written only when JV_DEBUG is set or the CLI runs with --verbose:
//
//	JV_DEBUG=1 jv view data.json
//
// While the TUI owns the terminal the output is redirected to a log file
// with SetOutput.
package debug

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = New(os.Stderr, log.InfoLevel)
)

func init() {
	if os.Getenv("JV_DEBUG") != "" {
		SetEnabled(true)
	}
}

// New creates a logger with the timestamp format used across jv.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled switches the shared logger between debug and info level.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects the shared logger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Log writes a debug message. Uses printf-style formatting.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	Logger().Debugf(format, args...)
}

// LogTiming writes a timing message at debug level.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	Logger().Debug("timing", "op", name, "took", d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("load")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	l := Logger()
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !Enabled() {
		return
	}
	Logger().Debugf("%s: %T = %+v", name, v, v)
}

// Warn writes a warning regardless of the debug switch.
func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}
