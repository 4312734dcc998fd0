// Package logger provides the leveled, colorized terminal output used by
// every build component. Levels and palette follow the usual convention:
// debug cyan, info green, warn yellow, error and critical red.
package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	debugStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Logger writes leveled messages to a single destination. Safe for use from
// concurrent compile workers.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// New returns a Logger writing to w. Debug messages are emitted only when
// verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{w: w, verbose: verbose}
}

func (l *Logger) emit(style lipgloss.Style, level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := style.Render(fmt.Sprintf("[%-8s]", level))
	msg := style.Render(fmt.Sprintf(format, args...))
	fmt.Fprintf(l.w, "%s %s\n", prefix, msg)
}

// Debugf logs at debug level; suppressed unless the logger is verbose.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}

	l.emit(debugStyle, "DEBUG", format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(infoStyle, "INFO", format, args...)
}

// Warnf logs at warning level.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(warnStyle, "WARNING", format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(errorStyle, "ERROR", format, args...)
}

// Criticalf logs at critical level.
func (l *Logger) Criticalf(format string, args ...any) {
	l.emit(criticalStyle, "CRITICAL", format, args...)
}
