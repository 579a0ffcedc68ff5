package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"staffgroups/internal/hierarchy"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	warnColor    = lipgloss.Color("#FFB86C")
	dimColor     = lipgloss.Color("#6272A4")
	textColor    = lipgloss.Color("#F8F8F2")
)

// printForestSummary prints a one-line overview of the forest followed by any
// data problems found while building it.
func printForestSummary(w io.Writer, version string, forest hierarchy.Forest) {
	appStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	versionStyle := lipgloss.NewStyle().
		Foreground(dimColor)

	statsStyle := lipgloss.NewStyle().
		Foreground(textColor)

	warnStyle := lipgloss.NewStyle().
		Foreground(warnColor)

	s := hierarchy.Summarize(forest)

	versionStr := ""
	if version != "" {
		versionStr = versionStyle.Render(fmt.Sprintf(" v%s", version))
	}

	statsStr := fmt.Sprintf("%d Groups", s.Total)
	if s.Total > 0 {
		statsStr += fmt.Sprintf(": %d top level, depth %d", s.Roots, s.MaxDepth)
	}

	_, _ = fmt.Fprintln(w, appStyle.Render("Staff Groups")+versionStr)
	_, _ = fmt.Fprintln(w, statsStyle.Render(statsStr))

	if s.Cycles > 0 {
		_, _ = fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("⚠ %d hidden in parent loops: %s", s.Cycles, strings.Join(forest.Cycles, ", "))))
	}
	if s.Dangling > 0 {
		_, _ = fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("⚠ %d with a missing parent: %s", s.Dangling, strings.Join(forest.Dangling, ", "))))
	}
	if s.Detached > 0 {
		_, _ = fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("⚠ %d detached from a loop: %s", s.Detached, strings.Join(forest.Detached, ", "))))
	}
}

// printForestText writes the forest as an indented outline.
func printForestText(w io.Writer, forest hierarchy.Forest) {
	idStyle := lipgloss.NewStyle().Foreground(dimColor)
	for _, row := range hierarchy.Flatten(forest.Tree, nil) {
		name := row.Node.Name
		if name == "" {
			name = row.Node.ID
		}
		_, _ = fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", row.Depth), name, idStyle.Render("["+row.Node.ID+"]"))
	}
}

type jsonNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	ParentID string     `json:"parentId,omitempty"`
	Order    int        `json:"order"`
	Children []jsonNode `json:"children"`
}

type jsonForest struct {
	Tree     []jsonNode `json:"tree"`
	Cycles   []string   `json:"cycles"`
	Dangling []string   `json:"dangling"`
	Detached []string   `json:"detached"`
}

// printForestJSON writes the forest with its diagnostics as indented JSON.
func printForestJSON(w io.Writer, forest hierarchy.Forest) error {
	out := jsonForest{
		Tree:     toJSONNodes(forest.Tree),
		Cycles:   nonNil(forest.Cycles),
		Dangling: nonNil(forest.Dangling),
		Detached: nonNil(forest.Detached),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// toJSONNodes converts a forest built by BuildForestSafe, which is acyclic.
func toJSONNodes(nodes []*hierarchy.TreeNode) []jsonNode {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, jsonNode{
			ID:       n.ID,
			Name:     n.Name,
			ParentID: n.ParentID,
			Order:    n.Order,
			Children: toJSONNodes(n.Children),
		})
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
