package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duo/internal/logger"
)

func (m *model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("duo - "+m.state.Path()), m.refreshGit())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Clear expired status messages
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Skip if dimensions haven't actually changed
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncScroll()
		return m, nil

	case fileOpenResultMsg:
		if msg.success {
			m.setStatus(msg.message, statusDuration)
		} else {
			logger.Warn("open %s: %s", msg.path, msg.message)
			m.setStatus(msg.message, errorStatusDuration)
		}
		return m, nil

	case gitStatusMsg:
		// Drop results for a directory we already left
		if msg.dir != m.state.Path() {
			logger.Debug("Discarding git status for %s", msg.dir)
			return m, nil
		}
		m.git = msg.status
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey applies exactly one navigation transition per key press.
// Unbound keys are ignored.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		logger.Debug("Quit requested")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.state.MoveUp()

	case key.Matches(msg, m.keys.Down):
		m.state.MoveDown()

	case key.Matches(msg, m.keys.Enter):
		previous := m.state.Path()
		if target, ok := m.state.SelectedPath(); ok {
			logger.Debug("Changing directory to: %s", target)
		}
		if err := m.state.Enter(); err != nil {
			logger.Warn("enter: %v", err)
		}
		if m.state.Path() != previous {
			cmd = tea.Batch(m.afterDirChange(previous), tea.SetWindowTitle("duo - "+m.state.Path()))
		}

	case key.Matches(msg, m.keys.Parent):
		previous := m.state.Path()
		if err := m.state.Ascend(); err != nil {
			logger.Warn("parent: %v", err)
		} else {
			cmd = tea.Batch(m.afterDirChange(previous), tea.SetWindowTitle("duo - "+m.state.Path()))
		}

	case key.Matches(msg, m.keys.Refresh):
		if err := m.state.Refresh(); err != nil {
			logger.Warn("refresh: %v", err)
			m.setStatus("Refresh failed", errorStatusDuration)
		} else {
			cmd = m.refreshGit()
		}

	case key.Matches(msg, m.keys.Copy):
		if path, ok := m.state.SelectedPath(); ok {
			m.copyPath(path)
		}

	case key.Matches(msg, m.keys.Open):
		if path, ok := m.state.SelectedPath(); ok {
			cmd = m.openExternal(path)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.syncScroll()
	return m, cmd
}
