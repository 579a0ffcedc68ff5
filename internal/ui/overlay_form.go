package ui

import (
	"strings"

	"staffgroups/internal/domain"
	"staffgroups/internal/groups"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const overlayContentWidth = 48

type formField int

const (
	fieldName formField = iota
	fieldDescription
)

// groupFormSubmittedMsg carries a validated draft out of the group form.
type groupFormSubmittedMsg struct {
	editing bool
	draft   domain.GroupDraft
}

// overlayCancelledMsg is sent when any overlay is dismissed without acting.
type overlayCancelledMsg struct{}

// GroupFormOverlay collects the name and description of a new or existing
// group.
type GroupFormOverlay struct {
	groupID    string // empty when creating
	parentID   string
	parentName string
	nameInput  textinput.Model
	descInput  textarea.Model
	focus      formField
	err        string
}

// NewCreateGroupOverlay opens an empty form for a group under parentID
// ("" for the top level).
func NewCreateGroupOverlay(parentID, parentName string) *GroupFormOverlay {
	return newGroupFormOverlay("", parentID, parentName, "", "")
}

// NewEditGroupOverlay opens a form prefilled with g.
func NewEditGroupOverlay(g groups.Group, parentName string) *GroupFormOverlay {
	return newGroupFormOverlay(g.ID, g.ParentID, parentName, g.Name, g.Description)
}

func newGroupFormOverlay(groupID, parentID, parentName, name, description string) *GroupFormOverlay {
	ti := textinput.New()
	ti.Placeholder = "Group name"
	ti.CharLimit = 100
	ti.Width = overlayContentWidth - 2
	ti.SetValue(name)

	desc := textarea.New()
	desc.Placeholder = "Description (markdown)"
	desc.SetWidth(overlayContentWidth)
	desc.SetHeight(4)
	desc.CharLimit = domain.MaxDescriptionLength
	desc.ShowLineNumbers = false
	desc.SetValue(description)

	// textinput.Model is a value type: focus before storing it.
	ti.Focus()

	return &GroupFormOverlay{
		groupID:    groupID,
		parentID:   parentID,
		parentName: parentName,
		nameInput:  ti,
		descInput:  desc,
		focus:      fieldName,
	}
}

func (o *GroupFormOverlay) Init() tea.Cmd {
	return textinput.Blink
}

func (o *GroupFormOverlay) Update(msg tea.Msg) (*GroupFormOverlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return o, func() tea.Msg { return overlayCancelledMsg{} }
		case tea.KeyTab, tea.KeyShiftTab:
			return o, o.toggleFocus()
		case tea.KeyCtrlS:
			return o, o.submit()
		case tea.KeyEnter:
			if o.focus == fieldName {
				return o, o.submit()
			}
		}
	}

	var cmd tea.Cmd
	if o.focus == fieldName {
		o.nameInput, cmd = o.nameInput.Update(msg)
	} else {
		o.descInput, cmd = o.descInput.Update(msg)
	}
	return o, cmd
}

func (o *GroupFormOverlay) toggleFocus() tea.Cmd {
	if o.focus == fieldName {
		o.focus = fieldDescription
		o.nameInput.Blur()
		return o.descInput.Focus()
	}
	o.focus = fieldName
	o.descInput.Blur()
	return o.nameInput.Focus()
}

// submit validates the form. Invalid input stays in the form with an error
// line; valid input is sent as groupFormSubmittedMsg.
func (o *GroupFormOverlay) submit() tea.Cmd {
	draft := domain.GroupDraft{
		ID:          o.groupID,
		Name:        o.nameInput.Value(),
		Description: o.descInput.Value(),
		ParentID:    o.parentID,
	}.Normalize()
	if err := draft.Validate(); err != nil {
		o.err = err.Error()
		return nil
	}
	o.err = ""
	editing := o.groupID != ""
	return func() tea.Msg {
		return groupFormSubmittedMsg{editing: editing, draft: draft}
	}
}

func (o *GroupFormOverlay) View() string {
	title := "New group"
	if o.groupID != "" {
		title = "Edit group"
	}
	parent := "top level"
	if o.parentID != "" {
		parent = o.parentName
	}

	lines := []string{
		styleOverlayTitle.Render(title),
		styleStatsDim.Render("Parent: " + parent),
		"",
		styleField.Render("Name"),
		o.nameInput.View(),
		"",
		styleField.Render("Description"),
		o.descInput.View(),
	}
	if o.err != "" {
		lines = append(lines, "", styleFormError.Render("⚠ "+o.err))
	}
	lines = append(lines, "", styleFooter.Render("⏎ Save • ⇥ Next field • ctrl+s Save • esc Cancel"))
	return styleOverlay.Render(strings.Join(lines, "\n"))
}
