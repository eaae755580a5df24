// Package logging is a leveled logger with console and file sinks at
// independent thresholds, handed out per component (see manager.go)
// instead of one hardcoded global.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level is a log severity, ordered least to most severe.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to Info on no match.
func ParseLevel(s string) Level {
	switch s {
	case "trace", "TRACE":
		return Trace
	case "debug", "DEBUG":
		return Debug
	case "warn", "WARN":
		return Warn
	case "error", "ERROR":
		return Error
	default:
		return Info
	}
}

// Logger writes to a console sink above minConsoleLevel and a file sink
// above minFileLevel.
type Logger struct {
	component       string
	console         *log.Logger
	file            *log.Logger
	closer          *os.File
	minConsoleLevel Level
	minFileLevel    Level
}

// New creates a Logger for component, writing to dir/<component>_<ts>.log
// plus stdout. dir is created if missing.
func New(component, dir string, consoleLevel, fileLevel Level) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir %s: %w", dir, err)
	}
	ts := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, ts))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file %s: %w", path, err)
	}
	return &Logger{
		component:       component,
		console:         log.New(os.Stdout, "", log.LstdFlags),
		file:            log.New(f, "", log.LstdFlags),
		closer:          f,
		minConsoleLevel: consoleLevel,
		minFileLevel:    fileLevel,
	}, nil
}

// Close releases the log file handle.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) log(level Level, format string, args ...any) {
	line := fmt.Sprintf("[%s] [%s] %s", level, l.component, fmt.Sprintf(format, args...))
	if level >= l.minFileLevel {
		l.file.Println(line)
	}
	if level >= l.minConsoleLevel {
		l.console.Println(line)
	}
}

func (l *Logger) Trace(format string, args ...any) { l.log(Trace, format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.log(Debug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(Info, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(Warn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(Error, format, args...) }
