package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logDir  = "/var/log/fsbridge"
	logFile = "operations.log"
)

// New returns a logger writing to the operations log file. When the log
// directory is not writable (the common case for an unprivileged CLI
// run) it degrades to a silent logger rather than polluting stdout.
func New(rotationDays int) *log.Logger {
	f := openLogFile(rotationDays)
	if f == nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds)
}

// NewVerbose mirrors New but also copies every line to stderr
func NewVerbose(rotationDays int) *log.Logger {
	f := openLogFile(rotationDays)
	if f == nil {
		return log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}
	return log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags|log.Lmicroseconds)
}

func openLogFile(rotationDays int) *os.File {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil
	}
	path := filepath.Join(logDir, logFile)

	if rotationDays <= 0 {
		rotationDays = 30
	}
	rotateIfNeeded(path, rotationDays)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return f
}

// rotateIfNeeded renames a log file older than rotationDays aside with a
// timestamp suffix, then prunes rotated files past the retention window
func rotateIfNeeded(path string, rotationDays int) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -rotationDays)
	if !info.ModTime().Before(cutoff) {
		return
	}

	stamp := info.ModTime().Format("20060102-150405")
	if err := os.Rename(path, path+"."+stamp); err != nil {
		return
	}
	pruneRotated(path, rotationDays)
}

func pruneRotated(path string, rotationDays int) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -rotationDays)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), base+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
