package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m *App) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := "STAFF GROUPS"
	if m.version != "" {
		title = fmt.Sprintf("STAFF GROUPS v%s", m.version)
	}
	status := fmt.Sprintf("Groups: %d", len(m.groups))
	if m.refreshInFlight {
		status += " " + m.spinner.View()
	} else if m.lastRefreshStats != "" {
		status += " " + styleStatsDim.Render("Δ "+m.lastRefreshStats)
	}
	header := styleAppHeader.Render(title) + " " + status

	lines := []string{header}
	if banner := m.renderWarnings(); banner != "" {
		lines = append(lines, banner)
	}

	if m.showHelp {
		lines = append(lines, renderHelp(m.keys, m.width))
		lines = append(lines, m.renderFooter())
		return strings.Join(lines, "\n")
	}

	listHeight := clampDimension(m.height-4-(len(lines)-1), minListHeight, m.height-2)
	treeView := m.renderTreeView(listHeight)

	var mainBody string
	if overlay := m.overlayView(); overlay != "" {
		mainBody = lipgloss.Place(m.width, listHeight+2, lipgloss.Center, lipgloss.Center, overlay)
	} else if m.ShowDetails {
		leftStyle, rightStyle := stylePaneFocused, stylePane
		if m.focus == FocusDetails {
			leftStyle, rightStyle = stylePane, stylePaneFocused
		}
		leftWidth := m.treeWidth()
		rightWidth := m.viewport.Width
		if rightWidth < 1 {
			rightWidth = 1
		}
		left := leftStyle.Width(leftWidth).Height(listHeight).Render(treeView)
		right := rightStyle.Width(rightWidth).Height(listHeight).Render(m.viewport.View())
		mainBody = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		mainBody = stylePane.Width(m.treeWidth()).Height(listHeight).Render(treeView)
	}
	lines = append(lines, mainBody, m.renderFooter())
	return strings.Join(lines, "\n")
}

func (m *App) overlayView() string {
	switch {
	case m.groupForm != nil:
		return m.groupForm.View()
	case m.deleteOverlay != nil:
		return m.deleteOverlay.View()
	case m.memberOverlay != nil:
		return m.memberOverlay.View()
	}
	return ""
}

func (m *App) treeWidth() int {
	width := m.width - 2
	if m.ShowDetails {
		width = m.width - m.viewport.Width - 4
	}
	return clampDimension(width, 1, m.width)
}

// renderWarnings summarises records left out of, or re-rooted in, the tree.
func (m *App) renderWarnings() string {
	var parts []string
	if n := len(m.forest.Cycles); n > 0 {
		parts = append(parts, fmt.Sprintf("%d in a parent loop (hidden)", n))
	}
	if n := len(m.forest.Dangling); n > 0 {
		parts = append(parts, fmt.Sprintf("%d with a missing parent", n))
	}
	if n := len(m.forest.Detached); n > 0 {
		parts = append(parts, fmt.Sprintf("%d detached from a loop", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return styleWarning.Render("⚠ " + strings.Join(parts, " • "))
}

func (m *App) renderTreeView(listHeight int) string {
	if len(m.rows) == 0 {
		return styleStatsDim.Render("No groups yet.")
	}

	start, end := 0, len(m.rows)
	if end > listHeight {
		if m.cursor > listHeight/2 {
			start = m.cursor - listHeight/2
		}
		if start+listHeight < end {
			end = start + listHeight
		} else {
			start = end - listHeight
			if start < 0 {
				start = 0
			}
		}
	}

	width := m.treeWidth()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i, width))
	}
	return strings.Join(lines, "\n")
}

func (m *App) renderRow(i, width int) string {
	row := m.rows[i]
	node := row.Node

	marker := " •"
	if len(node.Children) > 0 {
		if m.collapsed[node.ID] {
			marker = " ▶"
		} else {
			marker = " ▼"
		}
	}
	name := node.Name
	if name == "" {
		name = node.ID
	}
	text := fmt.Sprintf("%s%s %s", strings.Repeat("  ", row.Depth), marker, name)
	if len(node.Children) > 0 && m.collapsed[node.ID] {
		text += fmt.Sprintf(" (%d)", len(node.Children))
	}
	text = ansi.Truncate(text, width, "…")

	switch {
	case i == m.cursor:
		return styleSelected.Render(text)
	case node.ID == m.moveSourceID:
		return styleMoveSource.Render(text)
	default:
		return styleNormalText.Render(text)
	}
}

func (m *App) renderFooter() string {
	if m.lastError != "" {
		return styleErrorIndicator.Render("⚠ " + ansi.Truncate(m.lastError, clampDimension(m.width-4, 1, m.width), "…"))
	}
	if m.toast != "" {
		return styleToast.Render(m.toast)
	}
	if m.moveSourceID != "" {
		name := m.byID[m.moveSourceID].Name
		return styleWarning.Render(fmt.Sprintf("Moving %s: pick a new parent and press Enter, b to place before, 0 for top level, esc to cancel", name))
	}
	parts := make([]string, 0, len(m.keys.footerBindings()))
	for _, b := range m.keys.footerBindings() {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return styleFooter.Render(ansi.Truncate(strings.Join(parts, " • "), clampDimension(m.width, 1, m.width), "…"))
}

func renderHelp(keys KeyMap, width int) string {
	var b strings.Builder
	b.WriteString(styleDetailHeader.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	seen := make(map[string]bool)
	for _, binding := range keys.helpBindings() {
		h := binding.Help()
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		line := styleField.Render(h.Key) + " " + h.Desc
		b.WriteString(ansi.Truncate(line, clampDimension(width, minViewportWidth, width), "…"))
		b.WriteString("\n")
	}
	b.WriteString("\n" + styleStatsDim.Render("Press any key to close"))
	return b.String()
}
