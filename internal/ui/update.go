package ui

import (
	"fmt"
	"time"

	"staffgroups/internal/debug"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.refreshInFlight {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tickMsg:
		if !m.autoRefresh || m.refreshInterval <= 0 {
			return m, nil
		}
		cmds := []tea.Cmd{}
		if refreshCmd := m.checkDBForChanges(); refreshCmd != nil {
			cmds = append(cmds, refreshCmd)
		}
		cmds = append(cmds, scheduleTick(m.refreshInterval))
		return m, tea.Batch(cmds...)
	case refreshCompleteMsg:
		m.refreshInFlight = false
		if msg.err != nil {
			m.lastError = fmt.Sprintf("refresh failed: %v", msg.err)
			m.lastRefreshStats = ""
			debug.Log("refresh failed", "err", msg.err)
			return m, nil
		}
		m.applyRefresh(msg.groups, msg.forest, msg.dbModTime)
		return m, m.detailMembersCmd()
	case mutationCompleteMsg:
		return m, m.handleMutationComplete(msg)
	case groupFormSubmittedMsg:
		return m, m.handleFormSubmitted(msg)
	case deleteConfirmedMsg:
		return m, m.handleDeleteConfirmed(msg)
	case memberSubmittedMsg:
		return m, m.handleMemberSubmitted(msg)
	case overlayCancelledMsg:
		m.closeOverlays()
		return m, nil
	case membersLoadedMsg:
		if msg.err != nil {
			m.membersErr = msg.err.Error()
		} else {
			m.membersErr = ""
			m.members[msg.groupID] = msg.members
			if m.memberOverlay != nil && m.memberOverlay.groupID == msg.groupID {
				m.memberOverlay.setMembers(msg.members)
			}
		}
		m.updateViewportContent()
		return m, nil
	case toastTickMsg:
		if m.toast == "" {
			return m, nil
		}
		if time.Since(m.toastStart) >= toastDuration {
			m.toast = ""
			return m, nil
		}
		return m, scheduleToastTick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		rawViewportWidth := int(float64(msg.Width)*0.45) - 2
		maxViewportWidth := msg.Width - minTreeWidth - 4
		m.viewport.Width = clampDimension(rawViewportWidth, minViewportWidth, maxViewportWidth)

		rawViewportHeight := msg.Height - 5
		maxViewportHeight := msg.Height - 2
		m.viewport.Height = clampDimension(rawViewportHeight, minViewportHeight, maxViewportHeight)
		m.updateViewportContent()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.hasOverlay() {
		return m, m.updateOverlay(msg)
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.hasOverlay() {
		return m, m.updateOverlay(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.ShowDetails && m.focus == FocusDetails {
		switch {
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Escape):
			m.focus = FocusTree
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Member):
			return m, m.openMemberToggle()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		if m.moveSourceID != "" {
			m.cancelMove()
		} else {
			m.lastError = ""
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
		return m, m.cursorMoved()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
		return m, m.cursorMoved()
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampCursor()
		return m, m.cursorMoved()
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.rows) - 1
		m.clampCursor()
		return m, m.cursorMoved()
	case key.Matches(msg, m.keys.Space), key.Matches(msg, m.keys.Right):
		m.toggleCurrent(key.Matches(msg, m.keys.Space))
	case key.Matches(msg, m.keys.Left):
		m.collapseCurrent()
	case key.Matches(msg, m.keys.Enter):
		if m.moveSourceID != "" {
			if len(m.rows) == 0 {
				return m, nil
			}
			return m, m.confirmMove(m.rows[m.cursor].Node.ID)
		}
		m.ShowDetails = !m.ShowDetails
		m.focus = FocusTree
		m.updateViewportContent()
		return m, m.detailMembersCmd()
	case key.Matches(msg, m.keys.Tab):
		if m.ShowDetails {
			m.focus = FocusDetails
		}
	case key.Matches(msg, m.keys.MoveRoot):
		if m.moveSourceID != "" {
			return m, m.confirmMove("")
		}
	case key.Matches(msg, m.keys.Before):
		return m, m.placeBefore()
	case key.Matches(msg, m.keys.Move):
		return m, m.beginMove()
	case key.Matches(msg, m.keys.New):
		return m, m.openCreateForm(false)
	case key.Matches(msg, m.keys.NewRoot):
		return m, m.openCreateForm(true)
	case key.Matches(msg, m.keys.Edit):
		return m, m.openEditForm()
	case key.Matches(msg, m.keys.Delete):
		m.openDeleteConfirm()
	case key.Matches(msg, m.keys.Member):
		return m, m.openMemberToggle()
	case key.Matches(msg, m.keys.ShiftUp):
		return m, m.shiftCurrent(-1)
	case key.Matches(msg, m.keys.ShiftDown):
		return m, m.shiftCurrent(1)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCurrentID()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.forceRefresh()
	}
	return m, nil
}

func (m *App) cursorMoved() tea.Cmd {
	m.updateViewportContent()
	return m.detailMembersCmd()
}

// toggleCurrent expands a collapsed row. With toggle set, an expanded row
// collapses instead.
func (m *App) toggleCurrent(toggle bool) {
	if len(m.rows) == 0 {
		return
	}
	node := m.rows[m.cursor].Node
	if len(node.Children) == 0 {
		return
	}
	if m.collapsed[node.ID] {
		delete(m.collapsed, node.ID)
	} else if toggle {
		m.collapsed[node.ID] = true
	}
	m.recalcVisibleRows()
	m.restoreCursorToID(node.ID)
}

func (m *App) collapseCurrent() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if len(row.Node.Children) > 0 && !m.collapsed[row.Node.ID] {
		m.collapsed[row.Node.ID] = true
		m.recalcVisibleRows()
		m.restoreCursorToID(row.Node.ID)
		return
	}
	// Already collapsed or a leaf: jump to the parent row.
	if parentID := row.Node.ParentID; parentID != "" {
		m.restoreCursorToID(parentID)
	}
}

func (m *App) copyCurrentID() tea.Cmd {
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	if err := clipboardWrite(g.ID); err != nil {
		m.lastError = fmt.Sprintf("copy failed: %v", err)
		return nil
	}
	return m.setToast(fmt.Sprintf("Copied '%s' to clipboard.", g.ID))
}

// detailMembersCmd loads members for the group shown in the detail pane
// when they are not cached yet.
func (m *App) detailMembersCmd() tea.Cmd {
	if !m.ShowDetails || m.store == nil {
		return nil
	}
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	if _, cached := m.members[g.ID]; cached {
		return nil
	}
	return loadMembersCmd(m.store, g.ID)
}
