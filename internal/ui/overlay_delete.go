package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// deleteConfirmedMsg is sent when deletion is confirmed.
type deleteConfirmedMsg struct {
	groupID string
}

// DeleteOverlay asks for confirmation before a group is deleted.
type DeleteOverlay struct {
	groupID    string
	groupName  string
	children   int
	parentName string // "" when the group is top level
}

// NewDeleteOverlay creates a delete confirmation for a group with the given
// number of direct children.
func NewDeleteOverlay(groupID, groupName string, children int, parentName string) *DeleteOverlay {
	return &DeleteOverlay{
		groupID:    groupID,
		groupName:  groupName,
		children:   children,
		parentName: parentName,
	}
}

func (o *DeleteOverlay) Update(msg tea.Msg) (*DeleteOverlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("d", "y"))):
		id := o.groupID
		return o, func() tea.Msg { return deleteConfirmedMsg{groupID: id} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("n", "esc"))):
		return o, func() tea.Msg { return overlayCancelledMsg{} }
	}
	return o, nil
}

func (o *DeleteOverlay) View() string {
	lines := []string{
		styleOverlayDanger.Render("Delete"),
		"",
		fmt.Sprintf("Delete %s?", styleID.Render(o.groupName)),
		styleStatsDim.Render("Its memberships are removed."),
	}
	if o.children > 0 {
		target := "the top level"
		if o.parentName != "" {
			target = o.parentName
		}
		noun := "subgroups move"
		if o.children == 1 {
			noun = "subgroup moves"
		}
		lines = append(lines, styleWarning.Render(fmt.Sprintf("%d %s up to %s.", o.children, noun, target)))
	}
	lines = append(lines, "", styleFooter.Render("d/y Delete • n/esc Cancel"))
	return styleOverlay.Render(strings.Join(lines, "\n"))
}
