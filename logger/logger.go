package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	MaxLogFileSizeMB = 10
	MaxLogBackups    = 3
	LogFileName      = "gesture-bridge.log"
)

var (
	logFile     *lumberjack.Logger
	mu          sync.Mutex
	initialized bool
	debug       atomic.Bool
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
}

// Init directs log output to stderr and, when dir is not empty, to a
// size-rotated file inside dir.
func Init(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}

	var out io.Writer = os.Stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		logFile = &lumberjack.Logger{
			Filename:   filepath.Join(dir, LogFileName),
			MaxSize:    MaxLogFileSizeMB,
			MaxBackups: MaxLogBackups,
		}
		out = io.MultiWriter(os.Stderr, logFile)
	}

	log.SetOutput(out)
	initialized = true

	Info("Logger initialized")
	return nil
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	log.SetOutput(os.Stderr)
	initialized = false
}

// SetDebug enables or disables debug output. Safe to call at any time.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debug.Load()
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	log.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning
func Warn(format string, args ...interface{}) {
	log.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if !debug.Load() {
		return
	}
	log.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Command logs the outcome of a dispatched command.
func Command(name, outcome string, err error) {
	if err != nil {
		log.Printf("[CMD] Command=%s Outcome=%s Error=%v", name, outcome, err)
		return
	}
	log.Printf("[CMD] Command=%s Outcome=%s", name, outcome)
}

// Wire dumps raw bytes read from the link. Only active in debug mode.
func Wire(event string, data []byte) {
	if !debug.Load() {
		return
	}
	if len(data) > 64 {
		log.Printf("[WIRE] %s data_len=%d first_64=%q...", event, len(data), data[:64])
	} else {
		log.Printf("[WIRE] %s data=%q", event, data)
	}
}
