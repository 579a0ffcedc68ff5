package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// memberSubmittedMsg asks for staffID to be added to, or removed from,
// groupID.
type memberSubmittedMsg struct {
	groupID string
	staffID string
	member  bool
}

// MemberOverlay toggles one staff member's membership of a group. Entering
// an existing member removes them; anyone else is added.
type MemberOverlay struct {
	groupID   string
	groupName string
	members   []string
	loaded    bool
	input     textinput.Model
	err       string
}

// NewMemberOverlay opens the toggle for groupID. Submitting waits until the
// current members are loaded.
func NewMemberOverlay(groupID, groupName string, members []string, loaded bool) *MemberOverlay {
	ti := textinput.New()
	ti.Placeholder = "Staff id"
	ti.CharLimit = 64
	ti.Width = overlayContentWidth - 2
	ti.Focus()
	return &MemberOverlay{
		groupID:   groupID,
		groupName: groupName,
		members:   members,
		loaded:    loaded,
		input:     ti,
	}
}

func (o *MemberOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// setMembers replaces the known member list once it has loaded.
func (o *MemberOverlay) setMembers(members []string) {
	o.members = members
	o.loaded = true
}

func (o *MemberOverlay) Update(msg tea.Msg) (*MemberOverlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return o, func() tea.Msg { return overlayCancelledMsg{} }
		case tea.KeyEnter:
			return o, o.submit()
		}
	}
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd
}

func (o *MemberOverlay) submit() tea.Cmd {
	staffID := strings.TrimSpace(o.input.Value())
	if staffID == "" {
		o.err = "staff id is required"
		return nil
	}
	if !o.loaded {
		o.err = "members are still loading"
		return nil
	}
	o.err = ""
	out := memberSubmittedMsg{
		groupID: o.groupID,
		staffID: staffID,
		member:  !slices.Contains(o.members, staffID),
	}
	return func() tea.Msg { return out }
}

func (o *MemberOverlay) View() string {
	current := "none"
	switch {
	case !o.loaded:
		current = "loading…"
	case len(o.members) > 0:
		current = strings.Join(o.members, ", ")
	}
	lines := []string{
		styleOverlayTitle.Render("Members of " + o.groupName),
		styleStatsDim.Render("Current: " + current),
		"",
		o.input.View(),
		styleStatsDim.Render("Removing a member also removes them from every subgroup."),
	}
	if o.err != "" {
		lines = append(lines, "", styleFormError.Render("⚠ "+o.err))
	}
	lines = append(lines, "", styleFooter.Render("⏎ Add or remove • esc Cancel"))
	return styleOverlay.Render(strings.Join(lines, "\n"))
}
