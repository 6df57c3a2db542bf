// Package nav holds the browser's navigation state: the current directory,
// its entry list and the selected index, together with the transitions that
// keep the three consistent.
package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/LFroesch/duo/internal/scanner"
)

var (
	// ErrDirectoryChange is returned when the OS rejects a working directory change.
	ErrDirectoryChange = errors.New("cannot change directory")
	// ErrDirectoryOpen is returned when the target directory cannot be listed.
	ErrDirectoryOpen = errors.New("cannot list directory")
	// ErrMetadataLookup is returned when the selected entry cannot be stat'ed.
	ErrMetadataLookup = errors.New("cannot stat entry")
)

// FS is the slice of the operating system the state machine touches.
type FS interface {
	Chdir(dir string) error
	Getwd() (string, error)
	Stat(name string) (fs.FileInfo, error)
}

// Scanner lists the entry names of a directory.
type Scanner interface {
	Scan(path string) ([]string, error)
}

type osFS struct{}

func (osFS) Chdir(dir string) error { return os.Chdir(dir) }

func (osFS) Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	// os.Getwd may hand back a logical $PWD; resolve to the physical path
	return filepath.EvalSymlinks(wd)
}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// OS returns an FS backed by the real process working directory.
func OS() FS { return osFS{} }

// Option configures a State.
type Option func(*State)

// WithFS replaces the filesystem collaborator.
func WithFS(fsys FS) Option {
	return func(s *State) { s.fs = fsys }
}

// WithScanner replaces the directory scanner.
func WithScanner(sc Scanner) Option {
	return func(s *State) { s.scanner = sc }
}

// State is the browser's single navigation state. It is not safe for
// concurrent use; the UI loop is its only writer.
type State struct {
	fs      FS
	scanner Scanner

	path     string
	entries  []string
	selected int
}

// New builds a State rooted at the process working directory. The returned
// State is always usable: if the working directory cannot be resolved the
// browser starts at the filesystem root, and a failing initial scan leaves
// the entry list empty. The error reports what went wrong.
func New(opts ...Option) (*State, error) {
	s := &State{
		fs:      OS(),
		scanner: scanner.New(scanner.DefaultMaxEntries),
	}
	for _, opt := range opts {
		opt(s)
	}

	var startErr error
	wd, err := s.fs.Getwd()
	if err != nil {
		root := string(filepath.Separator)
		startErr = fmt.Errorf("cannot resolve working directory, starting at %s: %w", root, err)
		if err := s.fs.Chdir(root); err != nil {
			startErr = errors.Join(startErr, fmt.Errorf("%w %s: %w", ErrDirectoryChange, root, err))
		}
		wd = root
	}
	s.path = wd

	entries, err := s.scanner.Scan(wd)
	if err != nil {
		return s, errors.Join(startErr, fmt.Errorf("%w %s: %w", ErrDirectoryOpen, wd, err))
	}
	s.entries = entries
	return s, startErr
}

// Path returns the canonical current directory.
func (s *State) Path() string { return s.path }

// Entries returns a copy of the current entry list.
func (s *State) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len is the number of entries in the current directory listing.
func (s *State) Len() int { return len(s.entries) }

// Empty reports whether the entry list has no entries; the selection is
// inert in that case.
func (s *State) Empty() bool { return len(s.entries) == 0 }

// Selected returns the selected index. It is meaningful only when !Empty().
func (s *State) Selected() int { return s.selected }

// SelectedName returns the selected entry name.
func (s *State) SelectedName() (string, bool) {
	if s.Empty() {
		return "", false
	}
	return s.entries[s.selected], true
}

// SelectedPath returns the absolute path of the selected entry.
func (s *State) SelectedPath() (string, bool) {
	name, ok := s.SelectedName()
	if !ok {
		return "", false
	}
	return filepath.Join(s.path, name), true
}

// MoveUp moves the selection one row up, stopping at the first entry.
func (s *State) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

// MoveDown moves the selection one row down, stopping at the last entry.
func (s *State) MoveDown() {
	if s.selected < len(s.entries)-1 {
		s.selected++
	}
}

// Enter descends into the selected entry when it is a directory. Anything
// else is a no-op. The returned error is informational; state is never left
// half-updated.
func (s *State) Enter() error {
	target, ok := s.SelectedPath()
	if !ok {
		return nil
	}

	info, err := s.fs.Stat(target)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrMetadataLookup, target, err)
	}
	if !info.IsDir() {
		return nil
	}
	return s.changeDir(target)
}

// Ascend moves to the parent directory. The ".." is resolved by the OS, not
// stripped textually. At the filesystem root the parent is the root itself,
// so the listing is simply reloaded.
func (s *State) Ascend() error {
	sep := string(filepath.Separator)
	return s.changeDir(strings.TrimSuffix(s.path, sep) + sep + "..")
}

// Refresh rescans the current directory and clamps the selection to the new
// listing. A failed scan keeps the previous listing.
func (s *State) Refresh() error {
	entries, err := s.scanner.Scan(s.path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrDirectoryOpen, s.path, err)
	}
	s.entries = entries
	if s.selected > len(s.entries)-1 {
		s.selected = max(len(s.entries)-1, 0)
	}
	return nil
}

// changeDir switches the process into target, re-reads the canonical path and
// installs the new listing. If the new directory cannot be listed the process
// is moved back and the previous state is kept.
func (s *State) changeDir(target string) error {
	previous := s.path

	if err := s.fs.Chdir(target); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDirectoryChange, target, err)
	}

	wd, err := s.fs.Getwd()
	if err != nil {
		wd = filepath.Clean(target)
	}

	entries, err := s.scanner.Scan(wd)
	if err != nil {
		scanErr := fmt.Errorf("%w %s: %w", ErrDirectoryOpen, wd, err)
		if rbErr := s.fs.Chdir(previous); rbErr != nil {
			return errors.Join(scanErr, fmt.Errorf("%w %s: %w", ErrDirectoryChange, previous, rbErr))
		}
		return scanErr
	}

	s.path = wd
	s.entries = entries
	s.selected = 0
	return nil
}
