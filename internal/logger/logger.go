// Package logger provides leveled, optionally colored logging for mediasync.
//
// Levels:
//
//	default — info, warnings, errors and the run summary
//	debug   — resolved configuration, run id, the exact external command
//
// Each line carries a single-letter label: D (debug), I (info), W (warning),
// E (error), S (success).
package logger

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiReset  = "\x1b[0m"
)

// Logger writes labeled log lines to a single writer. Color is applied only
// when enabled, so tests capture plain text.
type Logger struct {
	w     io.Writer
	color bool
	debug bool
}

// New returns a Logger writing to w.
func New(w io.Writer, color bool) *Logger {
	return &Logger{w: w, color: color}
}

// std is the process-wide logger. Color is enabled only when stderr is a
// terminal.
var std = New(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))

// SetOutput redirects the process-wide logger to w and returns a restore
// function. Tests use it to capture log lines as plain text.
func SetOutput(w io.Writer, color bool) func() {
	prev := std
	std = New(w, color)
	std.debug = prev.debug
	return func() { std = prev }
}

// SetDebug toggles debug output on the logger.
func (l *Logger) SetDebug(on bool) { l.debug = on }

func (l *Logger) print(label, color, format string, args ...interface{}) {
	if l.color && color != "" {
		label = color + label + ansiReset
	}
	fmt.Fprintf(l.w, "[%s] %s\n", label, fmt.Sprintf(format, args...))
}

// Debugf logs a formatted message, visible only with debug enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print("D", ansiCyan, format, args...)
}

// Infof logs a formatted message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.print("I", "", format, args...)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.print("W", ansiYellow, format, args...)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.print("E", ansiRed, format, args...)
}

// Successf logs a formatted success message.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.print("S", ansiGreen, format, args...)
}

// SetDebug toggles debug output on the process-wide logger.
func SetDebug(on bool) { std.SetDebug(on) }

// Debugf logs to the process-wide logger at debug level.
func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }

// Infof logs to the process-wide logger.
func Infof(format string, args ...interface{}) { std.Infof(format, args...) }

// Warnf logs a warning to the process-wide logger.
func Warnf(format string, args ...interface{}) { std.Warnf(format, args...) }

// Errorf logs an error to the process-wide logger.
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// Successf logs a success message to the process-wide logger.
func Successf(format string, args ...interface{}) { std.Successf(format, args...) }
