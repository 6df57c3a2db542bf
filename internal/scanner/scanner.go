package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultMaxEntries is the entry cap used when a Scanner has no explicit Max.
const DefaultMaxEntries = 1024

// readBatch is how many names are requested from the OS per Readdirnames call.
const readBatch = 128

var (
	// ErrDirectoryOpen is returned when a path cannot be opened as a directory.
	ErrDirectoryOpen = errors.New("cannot open directory")
	// ErrDirectoryRead is returned when enumeration fails after the directory was opened.
	ErrDirectoryRead = errors.New("cannot read directory")
)

// Scanner lists directory entry names in the order the filesystem yields them.
type Scanner struct {
	// Max caps the number of names returned. Entries past the cap are
	// dropped without an error.
	Max int
}

// New returns a Scanner capped at n entries (DefaultMaxEntries when n <= 0).
func New(n int) *Scanner {
	return &Scanner{Max: n}
}

func (s *Scanner) limit() int {
	if s == nil || s.Max <= 0 {
		return DefaultMaxEntries
	}
	return s.Max
}

// Scan returns the names inside path, excluding "." and "..".
// The result is never sorted.
func (s *Scanner) Scan(path string) ([]string, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDirectoryOpen, path, err)
	}
	defer dir.Close()

	info, err := dir.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDirectoryOpen, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w %s: not a directory", ErrDirectoryOpen, path)
	}

	limit := s.limit()
	names := make([]string, 0, min(limit, readBatch))

	for len(names) < limit {
		batch, err := dir.Readdirnames(readBatch)
		for _, name := range batch {
			if name == "." || name == ".." {
				continue
			}
			if len(names) >= limit {
				break
			}
			names = append(names, name)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrDirectoryRead, path, err)
		}
	}

	return names, nil
}
