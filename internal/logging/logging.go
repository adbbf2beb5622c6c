// Package logging opens the session log used while the terminal UI owns the screen.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Prefix is written at the start of every log line
const Prefix = "[concentration] "

// Open appends to the log file at path, creating its directory if needed.
// The returned closer must be closed when the session ends.
func Open(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("error creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file: %w", err)
	}

	return New(f), f, nil
}

// New returns a logger in the session format writing to w
func New(w io.Writer) *log.Logger {
	return log.New(w, Prefix, log.LstdFlags|log.Lmsgprefix)
}
