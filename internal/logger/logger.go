package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	logFile  *os.File
	fallback io.Writer = os.Stderr
	mu       sync.Mutex
	enabled  = true
	debug    = false
)

const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
)

// DefaultPath returns ~/.config/duo/duo.log
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "duo", "duo.log"), nil
}

// Init opens the log file at path, creating its directory if needed.
// Until Init succeeds every line goes to the fallback writer.
func Init(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	// Check if log file needs rotation
	if info, err := os.Stat(path); err == nil {
		if info.Size() > maxLogSize {
			// Rotate log by renaming to .old
			oldPath := path + ".old"
			os.Remove(oldPath) // Remove old backup if exists
			os.Rename(path, oldPath)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	mu.Unlock()
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// SetFallback sets the writer used while no log file is open.
func SetFallback(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	fallback = w
}

// SetDebug toggles emission of Debug lines
func SetDebug(on bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = on
}

// Disable disables logging (useful for tests)
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Enable enables logging
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Debug logs a debug message when debug logging is on
func Debug(format string, args ...any) {
	mu.Lock()
	on := debug
	mu.Unlock()
	if on {
		log("DEBUG", format, args...)
	}
}

// Info logs an informational message
func Info(format string, args ...any) {
	log("INFO", format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	log("WARN", format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	log("ERROR", format, args...)
}

// log writes one line; write errors are ignored
func log(level string, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, message)

	if logFile != nil {
		logFile.WriteString(logLine)
		return
	}
	io.WriteString(fallback, logLine)
}
