package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxLogSize is the size past which an existing log is rotated aside at startup
const maxLogSize = 10 * 1024 * 1024

// setupLogging routes the standard logger to the file at path, appending.
// With an empty path, or when the file cannot be opened, output is discarded:
// the terminal owns stdout and stderr while the loop runs.
func setupLogging(path string) *os.File {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(path)
		rotated := strings.TrimSuffix(path, ext) + "-" + time.Now().Format("20060102-150405") + ext
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}
