// Package pkg provides utilities shared by tracklogic commands.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultSpillDir is used when NewFileSpill is given an empty directory.
var DefaultSpillDir = filepath.Join(os.TempDir(), "tracklogic-spill")

var (
	// ErrSpillClosed is returned when appending to a closed spill.
	ErrSpillClosed = errors.New("spill closed")
	// ErrSpillIndex is returned by Get for an index past the end.
	ErrSpillIndex = errors.New("spill index out of range")
)

// errStopDecode ends a scan early without reporting an error.
var errStopDecode = errors.New("stop decode")

// FileSpill is an append-only list of T kept on disk, so large check runs do
// not hold every result in memory. Close removes the backing file.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type gobSpill[T any] struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *gob.Encoder
	length  uint64
}

// NewFileSpill creates a spill for items of type T in dir, or in
// DefaultSpillDir when dir is empty.
func NewFileSpill[T any](dir string) (FileSpill[T], error) {
	if dir == "" {
		dir = DefaultSpillDir
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create spill directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "spill-*.gob")
	if err != nil {
		return nil, fmt.Errorf("create spill file in %s: %w", dir, err)
	}

	slog.Debug("Created spill", "path", file.Name())

	return &gobSpill[T]{path: file.Name(), file: file, encoder: gob.NewEncoder(file)}, nil
}

// Path implements FileSpill.
func (s *gobSpill[T]) Path() string {
	return s.path
}

// Len implements FileSpill.
func (s *gobSpill[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Append implements FileSpill.
func (s *gobSpill[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(item)
}

// AppendBatch implements FileSpill. Items before a failing one stay appended.
func (s *gobSpill[T]) AppendBatch(items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if err := s.appendLocked(item); err != nil {
			return err
		}
	}

	return nil
}

func (s *gobSpill[T]) appendLocked(item T) error {
	if s.file == nil {
		return fmt.Errorf("append to %s: %w", s.path, ErrSpillClosed)
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("Failed to encode spill item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("encode item %d: %w", s.length, err)
	}

	s.length++

	return nil
}

// Get implements FileSpill. It decodes from the start of the file.
func (s *gobSpill[T]) Get(index uint64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found T

	if index >= s.length {
		return found, fmt.Errorf("get %d of %d: %w", index, s.length, ErrSpillIndex)
	}

	err := s.decodeLocked(func(i uint64, item T) error {
		if i < index {
			return nil
		}

		found = item

		return errStopDecode
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return found, nil
}

// Range implements FileSpill. An error from f stops iteration and is returned.
func (s *gobSpill[T]) Range(f func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.decodeLocked(f)
}

// decodeLocked feeds every stored item to f in order.
func (s *gobSpill[T]) decodeLocked(f func(index uint64, item T) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open spill %s: %w", s.path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close spill reader", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range s.length {
		// gob leaves zero-valued fields untouched, so every item needs a fresh target.
		var item T
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("decode item %d of %s: %w", i, s.path, err)
		}

		if err := f(i, item); err != nil {
			if errors.Is(err, errStopDecode) {
				return nil
			}

			return err
		}
	}

	return nil
}

// Close implements FileSpill. Closing twice is a no-op.
func (s *gobSpill[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	closeErr := s.file.Close()
	s.file = nil

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, fmt.Errorf("remove spill %s: %w", s.path, err))
	}

	if closeErr != nil {
		return fmt.Errorf("close spill %s: %w", s.path, closeErr)
	}

	slog.Debug("Closed spill", "path", s.path, "length", s.length)

	return nil
}
