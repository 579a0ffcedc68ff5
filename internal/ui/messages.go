package ui

import (
	"time"

	"staffgroups/internal/config"
	"staffgroups/internal/groups"
	"staffgroups/internal/hierarchy"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct{}

type refreshCompleteMsg struct {
	groups    []groups.Group
	forest    hierarchy.Forest
	dbModTime time.Time
	err       error
}

// mutationCompleteMsg reports the result of a write issued from the tree.
type mutationCompleteMsg struct {
	action  string
	groupID string
	// name labels the group in toasts when it is not loaded yet.
	name string
	err  error
}

type membersLoadedMsg struct {
	groupID string
	members []string
	err     error
}

func scheduleTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Duration(config.GetInt(config.KeyAutoRefreshSeconds)) * time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{} })
}

type toastTickMsg struct{}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
