// Package groups stores staff groups and their memberships.
//
// The sqlite store mirrors a schemaless document collection: parent ids are
// not foreign keys and Import writes records exactly as given, so a stored
// hierarchy may be inconsistent. Readers must go through the hierarchy
// package before trusting it. Re-parenting writes, on the other hand, are
// validated and applied inside one transaction.
package groups

import "staffgroups/internal/hierarchy"

// Group models one staff group record.
type Group struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Order       int    `json:"order" yaml:"order"`
	CreatedBy   string `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Node returns the hierarchy view of the group.
func (g Group) Node() hierarchy.Node {
	return hierarchy.Node{
		ID:       g.ID,
		ParentID: g.ParentID,
		Order:    g.Order,
		Name:     g.Name,
	}
}

// Nodes converts groups for the hierarchy package, keeping their order.
func Nodes(groups []Group) []hierarchy.Node {
	out := make([]hierarchy.Node, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Node())
	}
	return out
}

// Index maps groups by id. Later duplicates do not replace earlier ones.
func Index(groups []Group) map[string]Group {
	out := make(map[string]Group, len(groups))
	for _, g := range groups {
		if _, ok := out[g.ID]; ok {
			continue
		}
		out[g.ID] = g
	}
	return out
}
