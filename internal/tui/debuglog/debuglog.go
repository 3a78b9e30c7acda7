// ABOUTME: Debug logger for the TUI that writes to a log file
// ABOUTME: Keeps slog output off the terminal while the alt screen is active

package debuglog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/chikadol/rev-frontend-sub000/internal/logger"
)

const fileName = "debug.log"

var (
	logFile *os.File
	mu      sync.Mutex
)

// Init opens <configDir>/debug.log and returns a logger writing to it.
// An empty configDir yields a logger that discards everything.
func Init(configDir, level string) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return logger.Discard(), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return logger.Discard(), err
	}

	f, err := os.OpenFile(filepath.Join(configDir, fileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return logger.Discard(), err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return logger.New(f, level, "text"), nil
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

// Path returns where Init writes for configDir
func Path(configDir string) string {
	return filepath.Join(configDir, fileName)
}
