// Package sink provides status line destinations.
package sink

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/vitalmon/internal/errors"
)

const (
	ErrWriteFailed = errors.ErrorCode("sink_write_failed")
	ErrInvalidPath = errors.ErrorCode("sink_invalid_path")
)

// clearLine returns the cursor to column zero and erases the line.
const clearLine = "\r\x1b[K"

// Terminal redraws a single line in place on a terminal.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) SetTitle(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.w, clearLine+text); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	return nil
}

// Finish moves the terminal past the status line.
func (t *Terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = io.WriteString(t.w, "\n")
}

// File keeps the latest status line in a file for bars that poll it.
type File struct {
	mu    sync.Mutex
	path  string
	last  string
	wrote bool
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New().New(ErrInvalidPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New().Wrap(ErrInvalidPath, err)
	}

	return &File{path: path}, nil
}

// SetTitle rewrites the file only when the text changed.
func (f *File) SetTitle(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.wrote && text == f.last {
		return nil
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text+"\n"), 0o644); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	f.last = text
	f.wrote = true

	return nil
}
