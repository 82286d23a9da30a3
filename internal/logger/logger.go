// Package logger is the diagnostics sink of the engine.
//
// Thumbnail failures and skipped rewrites are never returned to editing
// commands: they are reported here instead.
package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

var (
	// Lazy-load and ensure a single instance
	loggerOnce      sync.Once
	loggerSingleton *Logger
)

type VerboseLevel int

const (
	VerboseOff VerboseLevel = iota
	VerboseInfo
	VerboseDebug
	VerboseTrace
)

func CurrentLogger() *Logger {
	loggerOnce.Do(func() {
		loggerSingleton = NewLogger(os.Stderr)
	})
	return loggerSingleton
}

type Logger struct {
	mu      sync.Mutex
	verbose VerboseLevel
	out     *log.Logger
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{
		verbose: VerboseOff,
		out:     log.New(w, "", log.LstdFlags),
	}
}

// SetVerboseLevel overrides the default verbose level
func (l *Logger) SetVerboseLevel(level VerboseLevel) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = level
	return l
}

// SetOutput redirects messages, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.out.SetOutput(w)
	return l
}

func (l *Logger) enabled(level VerboseLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose >= level
}

func (l *Logger) Fatal(v ...any) {
	l.out.Fatalln(v...)
}
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.out.Println(v...)
}
func (l *Logger) Warnf(format string, v ...any) {
	l.out.Printf(format, v...)
}

func (l *Logger) Info(v ...any) {
	if l.enabled(VerboseInfo) {
		l.out.Println(v...)
	}
}
func (l *Logger) Infof(format string, v ...any) {
	if l.enabled(VerboseInfo) {
		l.out.Printf(format, v...)
	}
}

func (l *Logger) Debug(v ...any) {
	if l.enabled(VerboseDebug) {
		l.out.Println(v...)
	}
}
func (l *Logger) Debugf(format string, v ...any) {
	if l.enabled(VerboseDebug) {
		l.out.Printf(format, v...)
	}
}

func (l *Logger) Trace(v ...any) {
	if l.enabled(VerboseTrace) {
		l.out.Println(v...)
	}
}
func (l *Logger) Tracef(format string, v ...any) {
	if l.enabled(VerboseTrace) {
		l.out.Printf(format, v...)
	}
}

// Dump prints a deep representation of values (ex: style runs) in trace mode.
func (l *Logger) Dump(label string, v ...any) {
	if l.enabled(VerboseTrace) {
		l.out.Printf("%s:\n%s", label, spew.Sdump(v...))
	}
}

/* Shortcuts on the current logger */

func Warnf(format string, v ...any) {
	CurrentLogger().Warnf(format, v...)
}

func Infof(format string, v ...any) {
	CurrentLogger().Infof(format, v...)
}

func Debugf(format string, v ...any) {
	CurrentLogger().Debugf(format, v...)
}

func Tracef(format string, v ...any) {
	CurrentLogger().Tracef(format, v...)
}
