package main

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"
)

// Swappable for tests
var (
	writeClipboard = clipboard.WriteAll
	openPath       = open.Run
)

// openExternal hands path to the system default application. It never
// changes navigation state.
func (m *model) openExternal(path string) tea.Cmd {
	return func() tea.Msg {
		if err := openPath(path); err != nil {
			return fileOpenResultMsg{
				success: false,
				message: fmt.Sprintf("Failed to open %s: %v", filepath.Base(path), err),
				path:    path,
			}
		}
		return fileOpenResultMsg{
			success: true,
			message: fmt.Sprintf("Opened %s", filepath.Base(path)),
			path:    path,
		}
	}
}

func (m *model) copyPath(path string) {
	// Use clipboard library for cross-platform support
	err := writeClipboard(path)
	if err == nil {
		m.setStatus(fmt.Sprintf("Copied: %s", path), statusDuration)
	} else {
		m.setStatus(fmt.Sprintf("Failed to copy: %v", err), errorStatusDuration)
	}
}
