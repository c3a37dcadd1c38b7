// Package logger is the process-wide diagnostic log for casesheet.
// Nothing is written until Init or SetOutput is called.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	globalLogger *log.Logger
	logFile      *os.File
	debugEnabled bool
	mu           sync.Mutex
)

// Init opens (appending) the log file at logPath. When mirror is non-nil,
// every line is also written there.
func Init(logPath string, mirror io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	var w io.Writer = f
	if mirror != nil {
		w = io.MultiWriter(f, mirror)
	}
	globalLogger = log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)

	return nil
}

// SetOutput logs to w without a file. Passing nil disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	if w == nil {
		globalLogger = nil
		return
	}
	globalLogger = log.New(w, "", log.Ltime|log.Lmicroseconds)
}

// SetDebug toggles Debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	write("INFO", format, v...)
}

// Debug logs a debug message when debug output is enabled.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	enabled := debugEnabled
	mu.Unlock()
	if enabled {
		write("DEBUG", format, v...)
	}
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	write("ERROR", format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	write("WARN", format, v...)
}

// GetWriter returns the log destination, for handing to libraries that
// want an io.Writer.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		return globalLogger.Writer()
	}
	return io.Discard
}

func write(level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		globalLogger.Printf("["+level+"] "+format, v...)
	}
}
