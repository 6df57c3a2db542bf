package main

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duo/internal/config"
	"github.com/LFroesch/duo/internal/git"
	"github.com/LFroesch/duo/internal/logger"
	"github.com/LFroesch/duo/internal/metadata"
	"github.com/LFroesch/duo/internal/nav"
)

// File open result message
type fileOpenResultMsg struct {
	success bool
	message string
	path    string
}

// Git lookup result for dir, delivered off the update loop
type gitStatusMsg struct {
	dir    string
	status git.Status
}

// Terminal layout constants
const (
	headerHeight    = 1 // title row
	statusBarHeight = 1 // status row
	borderRows      = 2 // top and bottom pane border
	minPaneHeight   = borderRows + 1
	minPaneWidth    = 12
)

const (
	statusDuration      = 2 * time.Second
	errorStatusDuration = 3 * time.Second
)

const (
	emptyListPlaceholder = "(empty directory)"
	noSelectionText      = "No selection"
)

type model struct {
	state        *nav.State
	config       *config.Config
	keys         keyMap
	help         help.Model
	width        int
	height       int
	scrollOffset int // first entry shown in the left pane
	git          git.Status
	statusMsg    string
	statusExpiry time.Time

	// Collaborators, swappable in tests
	describe  func(path string) string
	lookupGit func(dir string) git.Status
}

func newModel(state *nav.State, cfg *config.Config) *model {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &model{
		state:     state,
		config:    cfg,
		keys:      defaultKeyMap(),
		help:      help.New(),
		git:       git.Status{Modified: map[string]bool{}},
		describe:  metadata.Describe,
		lookupGit: git.Lookup,
	}
	return m
}

// refreshGit returns a command that looks up branch and modified markers for
// the current directory. The result arrives as a gitStatusMsg.
func (m *model) refreshGit() tea.Cmd {
	if !m.config.ShowGitBranch {
		m.git = git.Status{Modified: map[string]bool{}}
		return nil
	}
	dir, lookup := m.state.Path(), m.lookupGit
	return func() tea.Msg {
		return gitStatusMsg{dir: dir, status: lookup(dir)}
	}
}

// afterDirChange resets per-directory view state once the listing changed
func (m *model) afterDirChange(previous string) tea.Cmd {
	m.scrollOffset = 0
	if m.state.Path() == previous {
		return nil
	}
	logger.Debug("Current path: %s", m.state.Path())
	m.git = git.Status{Modified: map[string]bool{}}
	return m.refreshGit()
}

// listRows is the number of entry rows that fit in the left pane
func (m *model) listRows() int {
	return m.paneHeight() - borderRows
}

// paneHeight is the outer height of both panes, borders included
func (m *model) paneHeight() int {
	h := m.height - headerHeight - statusBarHeight
	if m.help.ShowAll {
		h -= len(m.keys.FullHelp()[0])
	}
	if h < minPaneHeight {
		h = minPaneHeight
	}
	return h
}

// syncScroll keeps the selected entry inside the visible window
func (m *model) syncScroll() {
	m.scrollOffset = visibleOffset(m.state.Selected(), m.scrollOffset, m.listRows(), m.state.Len())
}

// visibleOffset returns the first visible row so that selected stays within
// [offset, offset+rows) for a list of n entries.
func visibleOffset(selected, offset, rows, n int) int {
	if rows < 1 || n == 0 {
		return 0
	}
	if selected < offset {
		offset = selected
	}
	if selected >= offset+rows {
		offset = selected - rows + 1
	}
	if maxOffset := n - rows; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *model) setStatus(msg string, d time.Duration) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(d)
}
