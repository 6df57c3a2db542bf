package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFroesch/duo/internal/scanner"
)

// fakeInfo is the minimal fs.FileInfo the state machine inspects.
type fakeInfo struct {
	name string
	dir  bool
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return 0 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return i.dir }
func (i fakeInfo) Sys() any           { return nil }

func (i fakeInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

// fakeFS models a small directory tree. dirs maps a directory to its
// children in enumeration order; files is the set of regular files.
type fakeFS struct {
	cwd        string
	dirs       map[string][]string
	files      map[string]bool
	denyChdir  map[string]bool
	denyScan   map[string]bool
	getwdErr   error
	chdirCalls []string
}

func newFakeFS(cwd string) *fakeFS {
	return &fakeFS{
		cwd:       cwd,
		dirs:      map[string][]string{},
		files:     map[string]bool{},
		denyChdir: map[string]bool{},
		denyScan:  map[string]bool{},
	}
}

func (f *fakeFS) Chdir(dir string) error {
	dir = filepath.Clean(dir)
	f.chdirCalls = append(f.chdirCalls, dir)
	if f.denyChdir[dir] {
		return fs.ErrPermission
	}
	if _, ok := f.dirs[dir]; !ok {
		return fs.ErrNotExist
	}
	f.cwd = dir
	return nil
}

func (f *fakeFS) Getwd() (string, error) {
	if f.getwdErr != nil {
		return "", f.getwdErr
	}
	return f.cwd, nil
}

func (f *fakeFS) Stat(name string) (fs.FileInfo, error) {
	name = filepath.Clean(name)
	if _, ok := f.dirs[name]; ok {
		return fakeInfo{name: filepath.Base(name), dir: true}, nil
	}
	if f.files[name] {
		return fakeInfo{name: filepath.Base(name)}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) Scan(path string) ([]string, error) {
	if f.denyScan[path] {
		return nil, fs.ErrPermission
	}
	children, ok := f.dirs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]string(nil), children...), nil
}

func (f *fakeFS) addDir(path string, children ...string) {
	f.dirs[path] = children
}

func (f *fakeFS) addFile(path string) {
	f.files[path] = true
}

func newFakeState(t *testing.T, f *fakeFS) *State {
	t.Helper()
	s, err := New(WithFS(f), WithScanner(f))
	require.NoError(t, err)
	return s
}

// sampleTree builds /work containing a.txt and sub, where sub holds two files.
func sampleTree() *fakeFS {
	f := newFakeFS("/work")
	f.addDir("/", "work")
	f.addDir("/work", "a.txt", "sub")
	f.addFile("/work/a.txt")
	f.addDir("/work/sub", "inner.go", "notes.md")
	f.addFile("/work/sub/inner.go")
	f.addFile("/work/sub/notes.md")
	return f
}

func TestNewStartsAtWorkingDirectory(t *testing.T) {
	s := newFakeState(t, sampleTree())

	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
	assert.Equal(t, 0, s.Selected())
	assert.False(t, s.Empty())
}

func TestNewWithUnreadableStartDirectory(t *testing.T) {
	f := sampleTree()
	f.denyScan["/work"] = true

	s, err := New(WithFS(f), WithScanner(f))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryOpen)
	require.NotNil(t, s)
	assert.Equal(t, "/work", s.Path())
	assert.True(t, s.Empty())
}

func TestNewFallsBackToRootWithoutWorkingDirectory(t *testing.T) {
	f := sampleTree()
	f.getwdErr = errors.New("getwd: no such file or directory")

	s, err := New(WithFS(f), WithScanner(f))
	require.Error(t, err)
	require.NotNil(t, s)
	assert.Equal(t, string(filepath.Separator), s.Path())
	assert.Equal(t, []string{"work"}, s.Entries())
}

func TestMoveWithinBounds(t *testing.T) {
	s := newFakeState(t, sampleTree())

	s.MoveUp()
	assert.Equal(t, 0, s.Selected(), "MoveUp at first entry is a no-op")

	s.MoveDown()
	assert.Equal(t, 1, s.Selected())

	s.MoveDown()
	assert.Equal(t, 1, s.Selected(), "MoveDown at last entry is a no-op")

	s.MoveUp()
	assert.Equal(t, 0, s.Selected())
}

func TestRandomMovesStayInBounds(t *testing.T) {
	f := newFakeFS("/many")
	names := make([]string, 37)
	for i := range names {
		names[i] = fmt.Sprintf("f%02d", i)
		f.addFile(filepath.Join("/many", names[i]))
	}
	f.addDir("/many", names...)
	s := newFakeState(t, f)

	rng := rand.New(rand.NewPCG(7, 42))
	for i := 0; i < 2000; i++ {
		if rng.IntN(2) == 0 {
			s.MoveUp()
		} else {
			s.MoveDown()
		}
		require.GreaterOrEqual(t, s.Selected(), 0)
		require.Less(t, s.Selected(), s.Len())
	}
}

func TestEmptyDirectoryIsInert(t *testing.T) {
	f := newFakeFS("/empty")
	f.addDir("/", "empty")
	f.addDir("/empty")
	s := newFakeState(t, f)

	require.True(t, s.Empty())

	s.MoveDown()
	s.MoveUp()
	assert.Equal(t, 0, s.Selected())

	require.NoError(t, s.Enter())
	assert.Equal(t, "/empty", s.Path())
	assert.Empty(t, f.chdirCalls, "Enter on an empty list must not touch the filesystem")

	_, ok := s.SelectedName()
	assert.False(t, ok)
	_, ok = s.SelectedPath()
	assert.False(t, ok)
}

func TestEnterOnFileIsNoop(t *testing.T) {
	f := sampleTree()
	s := newFakeState(t, f)

	require.NoError(t, s.Enter())
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, f.chdirCalls)
}

func TestEnterDirectoryScenario(t *testing.T) {
	s := newFakeState(t, sampleTree())

	s.MoveDown()
	require.Equal(t, 1, s.Selected())

	require.NoError(t, s.Enter())
	assert.Equal(t, "/work/sub", s.Path())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, []string{"inner.go", "notes.md"}, s.Entries())
}

func TestEnterStatFailure(t *testing.T) {
	f := newFakeFS("/work")
	f.addDir("/work", "vanished")
	s := newFakeState(t, f)

	err := s.Enter()
	assert.ErrorIs(t, err, ErrMetadataLookup)
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"vanished"}, s.Entries())
}

func TestEnterChdirDenied(t *testing.T) {
	f := sampleTree()
	f.denyChdir["/work/sub"] = true
	s := newFakeState(t, f)
	s.MoveDown()

	err := s.Enter()
	assert.ErrorIs(t, err, ErrDirectoryChange)
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, "/work", f.cwd)
}

func TestEnterScanFailureRollsBack(t *testing.T) {
	f := sampleTree()
	f.denyScan["/work/sub"] = true
	s := newFakeState(t, f)
	s.MoveDown()

	err := s.Enter()
	assert.ErrorIs(t, err, ErrDirectoryOpen)
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, "/work", f.cwd, "process must be moved back to the previous directory")
	assert.Equal(t, []string{"/work/sub", "/work"}, f.chdirCalls)
}

func TestEnterRollbackFailureReportsBoth(t *testing.T) {
	f := sampleTree()
	f.denyScan["/work/sub"] = true
	s := newFakeState(t, f)
	s.MoveDown()

	// sub is reachable but /work becomes unreachable after we leave it.
	f.denyChdir["/work"] = true

	err := s.Enter()
	assert.ErrorIs(t, err, ErrDirectoryOpen)
	assert.ErrorIs(t, err, ErrDirectoryChange)
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
}

func TestEnterUsesTargetWhenGetwdFails(t *testing.T) {
	f := sampleTree()
	s := newFakeState(t, f)
	s.MoveDown()

	f.getwdErr = errors.New("getwd failed")
	require.NoError(t, s.Enter())
	assert.Equal(t, "/work/sub", s.Path())
}

func TestAscend(t *testing.T) {
	f := sampleTree()
	s := newFakeState(t, f)
	s.MoveDown()
	require.NoError(t, s.Enter())
	s.MoveDown()
	require.Equal(t, 1, s.Selected())

	require.NoError(t, s.Ascend())
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())

	require.NoError(t, s.Ascend())
	assert.Equal(t, "/", s.Path())
}

func TestAscendAtRootIsIdempotent(t *testing.T) {
	f := sampleTree()
	f.cwd = "/"
	s := newFakeState(t, f)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Ascend())
		assert.Equal(t, "/", s.Path())
		assert.Equal(t, []string{"work"}, s.Entries())
	}
}

func TestAscendDenied(t *testing.T) {
	f := sampleTree()
	f.denyChdir["/"] = true
	s := newFakeState(t, f)
	s.MoveDown()

	assert.ErrorIs(t, s.Ascend(), ErrDirectoryChange)
	assert.Equal(t, "/work", s.Path())
	assert.Equal(t, 1, s.Selected())
}

func TestRefreshClampsSelection(t *testing.T) {
	f := sampleTree()
	s := newFakeState(t, f)
	s.MoveDown()

	f.dirs["/work"] = []string{"only"}
	require.NoError(t, s.Refresh())
	assert.Equal(t, []string{"only"}, s.Entries())
	assert.Equal(t, 0, s.Selected())

	f.dirs["/work"] = nil
	require.NoError(t, s.Refresh())
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Selected())
}

func TestRefreshFailureKeepsListing(t *testing.T) {
	f := sampleTree()
	s := newFakeState(t, f)

	f.denyScan["/work"] = true
	assert.ErrorIs(t, s.Refresh(), ErrDirectoryOpen)
	assert.Equal(t, []string{"a.txt", "sub"}, s.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := newFakeState(t, sampleTree())

	entries := s.Entries()
	entries[0] = "mutated"
	assert.Equal(t, "a.txt", s.Entries()[0])
}

func samePath(t *testing.T, expected, actual string) {
	t.Helper()
	want, err := filepath.EvalSymlinks(expected)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(actual)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRealFilesystemNavigation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "x"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "y"), nil, 0644))
	t.Chdir(root)

	s, err := New(WithScanner(scanner.New(0)))
	require.NoError(t, err)
	samePath(t, root, s.Path())

	entries := s.Entries()
	sort.Strings(entries)
	require.Equal(t, []string{"a.txt", "sub"}, entries)

	for name, _ := s.SelectedName(); name != "sub"; name, _ = s.SelectedName() {
		s.MoveDown()
	}
	require.NoError(t, s.Enter())
	samePath(t, filepath.Join(root, "sub"), s.Path())
	assert.Equal(t, 0, s.Selected())

	subEntries := s.Entries()
	sort.Strings(subEntries)
	assert.Equal(t, []string{"x", "y"}, subEntries)

	wd, err := os.Getwd()
	require.NoError(t, err)
	samePath(t, s.Path(), wd)

	require.NoError(t, s.Ascend())
	samePath(t, root, s.Path())
}

func TestRealFilesystemSymlinkedStart(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "real", "deep")
	require.NoError(t, os.MkdirAll(deep, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "marker"), nil, 0644))
	link := filepath.Join(root, "link")
	if err := os.Symlink(deep, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	t.Chdir(link)
	t.Setenv("PWD", link)

	canonicalDeep, err := filepath.EvalSymlinks(deep)
	require.NoError(t, err)
	canonicalReal, err := filepath.EvalSymlinks(filepath.Join(root, "real"))
	require.NoError(t, err)

	s, err := New()
	require.NoError(t, err)
	assert.Equal(t, canonicalDeep, s.Path())

	require.NoError(t, s.Ascend())
	assert.Equal(t, canonicalReal, s.Path(), "parent must be the physical parent of the link target")
	entries := s.Entries()
	sort.Strings(entries)
	assert.Equal(t, []string{"deep", "marker"}, entries)

	wd, err := os.Getwd()
	require.NoError(t, err)
	samePath(t, canonicalReal, wd)
}

func TestRealFilesystemEnterFileIsNoop(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "only.txt"), []byte("a"), 0644))
	t.Chdir(root)

	s, err := New()
	require.NoError(t, err)
	before := s.Path()

	require.NoError(t, s.Enter())
	assert.Equal(t, before, s.Path())
	assert.Equal(t, []string{"only.txt"}, s.Entries())
	assert.Equal(t, 0, s.Selected())
}

func TestRealFilesystemCapacity(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 40; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, fmt.Sprintf("entry-%02d", i)), nil, 0644))
	}
	t.Chdir(root)

	s, err := New(WithScanner(scanner.New(16)))
	require.NoError(t, err)
	assert.Equal(t, 16, s.Len())
}
