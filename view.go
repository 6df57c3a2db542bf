package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/duo/internal/logger"
	"github.com/LFroesch/duo/internal/metadata"
)

var (
	borderColor   = lipgloss.Color("240")
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	logger.Debug("Drawing UI: selected=%d", m.state.Selected())

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	height := m.paneHeight()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderFileList(leftWidth, height),
		m.renderMetadata(rightWidth, height),
	)

	sections := []string{m.renderHeader(), mainContent, m.renderStatusBar()}
	if m.help.ShowAll {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.width)

	title := fmt.Sprintf("duo - %s", m.state.Path())
	return titleStyle.Render(truncate(title, m.width-2))
}

// paneStyle draws a bordered box whose outer size is width x height
func paneStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(width-2, minPaneWidth-2)).
		Height(max(height-borderRows, 1))
}

// innerWidth is the text width left inside a pane after border and padding
func innerWidth(width int) int {
	return max(width-4, minPaneWidth-4)
}

// renderFileList draws the entry list, one entry per row from the first
// content row, with the selected row in reverse video.
func (m *model) renderFileList(width, height int) string {
	textWidth := innerWidth(width)
	rows := height - borderRows

	var lines []string
	if m.state.Empty() {
		lines = append(lines, dimStyle.Render(truncate(emptyListPlaceholder, textWidth)))
	} else {
		entries := m.state.Entries()
		offset := visibleOffset(m.state.Selected(), m.scrollOffset, rows, len(entries))
		end := min(offset+rows, len(entries))

		for i := offset; i < end; i++ {
			name := entries[i]
			marker := ""
			if m.git.Modified[filepath.Join(m.state.Path(), name)] {
				marker = " [M]"
			}

			label := truncate(name, textWidth-lipgloss.Width(marker))
			if i == m.state.Selected() {
				lines = append(lines, selectedStyle.Width(textWidth).Render(label+marker))
				continue
			}
			line := normalStyle.Render(label)
			if marker != "" {
				line += modifiedStyle.Render(marker)
			}
			lines = append(lines, line)
		}
	}

	return paneStyle(width, height).Render(strings.Join(lines, "\n"))
}

// renderMetadata draws "Selected: <name>" followed by the metadata lines of
// the selected entry, clipped to the pane height. Nothing is looked up when
// the directory is empty.
func (m *model) renderMetadata(width, height int) string {
	textWidth := innerWidth(width)
	rows := height - borderRows

	name, ok := m.state.SelectedName()
	if !ok {
		return paneStyle(width, height).Render(dimStyle.Render(truncate(noSelectionText, textWidth)))
	}

	path, _ := m.state.SelectedPath()
	info := m.describe(path)
	logger.Debug("file info: %s", strings.TrimSpace(info))

	lines := []string{labelStyle.Render(truncate("Selected: "+name, textWidth))}
	for _, line := range metadata.Lines(info) {
		if len(lines) >= rows {
			break
		}
		lines = append(lines, truncate(line, textWidth))
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}

	return paneStyle(width, height).Render(strings.Join(lines, "\n"))
}

func (m *model) renderStatusBar() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width)

	var statusText string
	if m.state.Empty() {
		statusText = "0/0"
	} else {
		statusText = fmt.Sprintf("%d/%d", m.state.Selected()+1, m.state.Len())
	}

	if m.git.Branch != "" {
		statusText += fmt.Sprintf(" | Branch: %s", m.git.Branch)
	}

	// Status message (temporary)
	if m.statusMsg != "" {
		statusText += " | " + m.statusMsg
	}

	rightSide := "? for help"
	if m.help.ShowAll {
		rightSide = "? to close help"
	}

	totalWidth := m.width - 2 // Account for padding
	padding := totalWidth - lipgloss.Width(statusText) - lipgloss.Width(rightSide)
	if padding < 1 {
		padding = 1
	}
	line := statusText + strings.Repeat(" ", padding) + rightSide

	return statusStyle.Render(truncate(line, totalWidth))
}

// truncate shortens s to at most width cells, ending with "..." when cut
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}

	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)+"...") > width {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "..."
}
