package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log levels
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// levelStyle is the fixed-width tag and ANSI color of a level
type levelStyle struct {
	tag   string
	color string
}

var levelStyles = [...]levelStyle{
	DEBUG: {"DEBUG", "\033[36m"},
	INFO:  {"INFO ", "\033[32m"},
	WARN:  {"WARN ", "\033[33m"},
	ERROR: {"ERROR", "\033[31m"},
	FATAL: {"FATAL", "\033[35m"},
}

const colorReset = "\033[0m"

// Logger writes timestamped lines tagged with level and caller.
// It satisfies core.Logger through Printf, so the renderer logs at INFO.
type Logger struct {
	level     LogLevel
	out       *log.Logger
	file      *os.File
	useColors bool
	exit      func(int)
}

// ParseLevel converts a level name to a LogLevel, defaulting to INFO
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// NewLogger creates a stdout logger. Colors are used only on a terminal.
func NewLogger(levelStr string) *Logger {
	info, err := os.Stdout.Stat()
	return &Logger{
		level:     ParseLevel(levelStr),
		out:       log.New(os.Stdout, "", 0),
		useColors: err == nil && info.Mode()&os.ModeCharDevice != 0,
		exit:      os.Exit,
	}
}

// NewMultiLogger creates a logger that writes to stdout and appends to
// filePath. Colors are disabled so the file stays plain text.
func NewMultiLogger(levelStr, filePath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewLogger(levelStr)
	l.out.SetOutput(io.MultiWriter(os.Stdout, file))
	l.file = file
	l.useColors = false
	return l, nil
}

// logf formats and writes one line. Callers of logf are the public methods,
// so the caller of interest sits two frames up.
func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}

	style := levelStyles[level]
	prefix := fmt.Sprintf("%s [%s] %s:%d:", time.Now().Format("2006/01/02 15:04:05"), style.tag, filepath.Base(file), line)
	if l.useColors {
		prefix = style.color + prefix + colorReset
	}
	l.out.Println(prefix, strings.TrimRight(fmt.Sprintf(format, v...), "\n"))

	if level == FATAL {
		l.Close()
		l.exit(1)
	}
}

// Debugf logs at DEBUG
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(DEBUG, format, v...) }

// Infof logs at INFO
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Printf logs at INFO
func (l *Logger) Printf(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Warnf logs at WARN
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(WARN, format, v...) }

// Errorf logs at ERROR
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(ERROR, format, v...) }

// Fatalf logs at FATAL and exits with status 1
func (l *Logger) Fatalf(format string, v ...interface{}) { l.logf(FATAL, format, v...) }

// SetLevel changes the minimum level written
func (l *Logger) SetLevel(levelStr string) {
	l.level = ParseLevel(levelStr)
}

// SetOutput redirects the logger, disabling colors
func (l *Logger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
	l.useColors = false
}

// Close closes the log file, if any
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
