package util

import (
	"fmt"
	"io"
	"os"
)

// ScratchFile is a request-scoped temporary file. The handler that accepts an
// upload owns the handle and releases it when the request ends; nothing is
// tracked process-wide.
type ScratchFile struct {
	path    string
	size    int64
	removed bool
}

// NewScratchFile copies src into a uniquely named file under dir (the OS temp
// directory when dir is empty).
func NewScratchFile(dir, pattern string, src io.Reader) (*ScratchFile, error) {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("close scratch file: %w", err)
	}
	return &ScratchFile{path: tmp.Name(), size: n}, nil
}

func (s *ScratchFile) Path() string { return s.path }

func (s *ScratchFile) Size() int64 { return s.size }

// Remove deletes the underlying file. Safe to call more than once; a file
// already gone is not an error.
func (s *ScratchFile) Remove() error {
	if s == nil || s.removed {
		return nil
	}
	s.removed = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	return nil
}
