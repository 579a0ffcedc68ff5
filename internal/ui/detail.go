package ui

import (
	"fmt"
	"strings"

	"staffgroups/internal/groups"
	"staffgroups/internal/hierarchy"

	"github.com/muesli/reflow/wordwrap"
)

func (m *App) updateViewportContent() {
	if !m.ShowDetails || m.viewport.Width <= 0 {
		return
	}
	g, ok := m.currentGroup()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderDetail(g, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m *App) renderDetail(g groups.Group, width int) string {
	var b strings.Builder
	b.WriteString(styleDetailHeader.Render(g.Name))
	b.WriteString("\n")
	b.WriteString(styleBreadcrumb.Render(wordwrap.String(m.breadcrumb(g.ID), width)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styleField.Render(label) + " " + value + "\n")
	}
	field("ID", styleID.Render(g.ID))
	field("Order", fmt.Sprintf("%d", g.Order))
	field("Children", fmt.Sprintf("%d", m.childCount(g.ID)))
	field("Created by", g.CreatedBy)
	field("Created", g.CreatedAt)
	field("Updated", g.UpdatedAt)

	if members, ok := m.members[g.ID]; ok {
		if len(members) == 0 {
			field("Members", "none")
		} else {
			field("Members", wordwrap.String(strings.Join(members, ", "), clampDimension(width-13, 10, width)))
		}
	} else if m.membersErr != "" {
		field("Members", "unavailable: "+m.membersErr)
	}

	if desc := strings.TrimSpace(g.Description); desc != "" {
		render := buildMarkdownRenderer(m.markdownStyle, clampDimension(width-2, minViewportWidth, width))
		b.WriteString("\n")
		b.WriteString(render(desc))
		b.WriteString("\n")
	}
	return b.String()
}

// breadcrumb renders the path from the top level down to id.
func (m *App) breadcrumb(id string) string {
	chain := hierarchy.Ancestors(groups.Nodes(m.groups), id)
	names := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, m.displayName(chain[i]))
	}
	names = append(names, m.displayName(id))
	return strings.Join(names, " › ")
}

func (m *App) displayName(id string) string {
	if g, ok := m.byID[id]; ok && g.Name != "" {
		return g.Name
	}
	return id
}

func (m *App) childCount(id string) int {
	count := 0
	for _, g := range m.groups {
		if g.ParentID == id && g.ID != id {
			count++
		}
	}
	return count
}
