package ui

import (
	"context"
	"fmt"

	appErrors "staffgroups/internal/errors"
	"staffgroups/internal/groups"

	tea "github.com/charmbracelet/bubbletea"
)

func mutationCmd(action, groupID string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return mutationCompleteMsg{action: action, groupID: groupID, err: fn(ctx)}
	}
}

func loadMembersCmd(store groups.Store, groupID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		members, err := store.Members(ctx, groupID)
		return membersLoadedMsg{groupID: groupID, members: members, err: err}
	}
}

// beginMove marks the current group as the one being moved.
func (m *App) beginMove() tea.Cmd {
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	m.moveSourceID = g.ID
	return nil
}

func (m *App) cancelMove() {
	m.moveSourceID = ""
}

// confirmMove re-parents the group being moved under newParentID ("" for the
// top level). Moves that would close a loop are refused before any write.
func (m *App) confirmMove(newParentID string) tea.Cmd {
	sourceID := m.moveSourceID
	if sourceID == "" {
		return nil
	}
	m.moveSourceID = ""
	source := m.byID[sourceID]
	if source.ParentID == newParentID {
		return m.setToast(fmt.Sprintf("%s is already there", source.Name))
	}
	if m.validator.WouldCreateCycle(groups.Nodes(m.groups), sourceID, newParentID) {
		target := m.byID[newParentID]
		m.lastError = fmt.Sprintf("Cannot move %s under %s: it would become its own ancestor", source.Name, target.Name)
		return nil
	}
	store := m.store
	return mutationCmd("move", sourceID, func(ctx context.Context) error {
		return store.Move(ctx, sourceID, newParentID)
	})
}

// placeBefore puts the group being moved in front of the row under the
// cursor. Both must share a parent.
func (m *App) placeBefore() tea.Cmd {
	sourceID := m.moveSourceID
	if sourceID == "" || len(m.rows) == 0 {
		return nil
	}
	target := m.rows[m.cursor].Node
	if target.ID == sourceID {
		return nil
	}
	m.moveSourceID = ""
	source := m.byID[sourceID]
	if source.ParentID != target.ParentID {
		m.lastError = fmt.Sprintf("Cannot place %s before %s: they have different parents", source.Name, m.displayName(target.ID))
		return nil
	}
	store := m.store
	targetID := target.ID
	return mutationCmd("reorder", sourceID, func(ctx context.Context) error {
		return store.Reorder(ctx, sourceID, targetID)
	})
}

func (m *App) shiftCurrent(delta int) tea.Cmd {
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	store := m.store
	return mutationCmd("reorder", g.ID, func(ctx context.Context) error {
		return store.Shift(ctx, g.ID, delta)
	})
}

func (m *App) hasOverlay() bool {
	return m.groupForm != nil || m.deleteOverlay != nil || m.memberOverlay != nil
}

func (m *App) closeOverlays() {
	m.groupForm = nil
	m.deleteOverlay = nil
	m.memberOverlay = nil
}

// updateOverlay forwards msg to whichever overlay is open.
func (m *App) updateOverlay(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.groupForm != nil:
		m.groupForm, cmd = m.groupForm.Update(msg)
	case m.deleteOverlay != nil:
		m.deleteOverlay, cmd = m.deleteOverlay.Update(msg)
	case m.memberOverlay != nil:
		m.memberOverlay, cmd = m.memberOverlay.Update(msg)
	}
	return cmd
}

// openCreateForm starts a new group under the current row, or at the top
// level when topLevel is set or the tree is empty.
func (m *App) openCreateForm(topLevel bool) tea.Cmd {
	parentID, parentName := "", ""
	if !topLevel {
		if g, ok := m.currentGroup(); ok {
			parentID, parentName = g.ID, m.displayName(g.ID)
		}
	}
	m.groupForm = NewCreateGroupOverlay(parentID, parentName)
	return m.groupForm.Init()
}

func (m *App) openEditForm() tea.Cmd {
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	m.groupForm = NewEditGroupOverlay(g, m.displayName(g.ParentID))
	return m.groupForm.Init()
}

func (m *App) openDeleteConfirm() {
	g, ok := m.currentGroup()
	if !ok {
		return
	}
	parentName := ""
	if g.ParentID != "" {
		parentName = m.displayName(g.ParentID)
	}
	m.deleteOverlay = NewDeleteOverlay(g.ID, m.displayName(g.ID), m.childCount(g.ID), parentName)
}

func (m *App) openMemberToggle() tea.Cmd {
	g, ok := m.currentGroup()
	if !ok {
		return nil
	}
	members, loaded := m.members[g.ID]
	m.memberOverlay = NewMemberOverlay(g.ID, m.displayName(g.ID), members, loaded)
	cmds := []tea.Cmd{m.memberOverlay.Init()}
	if !loaded && m.store != nil {
		cmds = append(cmds, loadMembersCmd(m.store, g.ID))
	}
	return tea.Batch(cmds...)
}

func (m *App) handleFormSubmitted(msg groupFormSubmittedMsg) tea.Cmd {
	m.groupForm = nil
	store := m.store
	draft := msg.draft
	if msg.editing {
		return mutationCmd("edit", draft.ID, func(ctx context.Context) error {
			return store.Update(ctx, draft.ID, draft.Name, draft.Description)
		})
	}
	actor := m.actor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		created, err := store.Create(ctx, draft, actor)
		return mutationCompleteMsg{action: "create", groupID: created.ID, name: draft.Name, err: err}
	}
}

func (m *App) handleDeleteConfirmed(msg deleteConfirmedMsg) tea.Cmd {
	m.deleteOverlay = nil
	store := m.store
	id := msg.groupID
	name := m.displayName(id)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return mutationCompleteMsg{action: "delete", groupID: id, name: name, err: store.Delete(ctx, id)}
	}
}

func (m *App) handleMemberSubmitted(msg memberSubmittedMsg) tea.Cmd {
	m.memberOverlay = nil
	store := m.store
	action := "remove member"
	if msg.member {
		action = "add member"
	}
	return mutationCmd(action, msg.groupID, func(ctx context.Context) error {
		return store.SetMembership(ctx, msg.staffID, msg.groupID, msg.member)
	})
}

func (m *App) handleMutationComplete(msg mutationCompleteMsg) tea.Cmd {
	if msg.err != nil {
		m.lastError = describeMutationError(msg)
		return nil
	}
	m.lastError = ""
	cmds := []tea.Cmd{m.forceRefresh()}
	name := msg.name
	if g, ok := m.byID[msg.groupID]; ok && name == "" {
		name = g.Name
	}
	if name == "" {
		name = msg.groupID
	}
	switch msg.action {
	case "move":
		m.revealAfterRefresh = msg.groupID
		cmds = append(cmds, m.setToast(fmt.Sprintf("Moved %s", name)))
	case "reorder":
		cmds = append(cmds, m.setToast(fmt.Sprintf("Reordered %s", name)))
	case "create":
		m.revealAfterRefresh = msg.groupID
		cmds = append(cmds, m.setToast(fmt.Sprintf("Created %s", name)))
	case "edit":
		cmds = append(cmds, m.setToast(fmt.Sprintf("Saved %s", name)))
	case "delete":
		cmds = append(cmds, m.setToast(fmt.Sprintf("Deleted %s", name)))
	case "add member":
		cmds = append(cmds, m.setToast(fmt.Sprintf("Added member to %s", name)))
	case "remove member":
		cmds = append(cmds, m.setToast(fmt.Sprintf("Removed member from %s and its subgroups", name)))
	}
	return tea.Batch(cmds...)
}

func describeMutationError(msg mutationCompleteMsg) string {
	switch appErrors.CodeOf(msg.err) {
	case appErrors.CodeCyclicMove:
		return fmt.Sprintf("Cannot %s %s: it would become its own ancestor", msg.action, msg.groupID)
	case appErrors.CodeNotFound:
		return fmt.Sprintf("Cannot %s %s: group no longer exists", msg.action, msg.groupID)
	case appErrors.CodeInvalidGroupData, appErrors.CodeInvalidMove:
		return fmt.Sprintf("Cannot %s: %v", msg.action, msg.err)
	default:
		return fmt.Sprintf("%s failed: %v", msg.action, msg.err)
	}
}
