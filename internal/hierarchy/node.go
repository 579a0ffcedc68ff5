// Package hierarchy turns flat parent-pointer records into a forest and answers
// ancestry questions about them.
//
// Input records come from a store with no referential-integrity guarantee, so
// nothing here returns an error for malformed data: blank ids are dropped,
// dangling parents become roots, and cycles are reported and excluded.
package hierarchy

import "strings"

// MaxTreeDepth bounds ancestry traversal when no Validator is configured.
const MaxTreeDepth = 50

// Node is one flat record read from the store. ParentID "" means top-level.
type Node struct {
	ID       string
	ParentID string
	Order    int
	Name     string
}

// TreeNode is a Node placed in a forest. Each TreeNode is owned by exactly one
// Children slice or by the root list.
type TreeNode struct {
	Node
	Children []*TreeNode
}

// Forest is the result of BuildForestSafe.
type Forest struct {
	Tree []*TreeNode
	// Cycles lists ids excluded because their parent pointers form a loop.
	Cycles []string
	// Dangling lists ids whose parent does not exist in the input.
	Dangling []string
	// Detached lists ids placed at the root because their parent was excluded
	// as part of a cycle.
	Detached []string
}

// valid returns the usable records: non-blank ids, first occurrence wins.
func valid(items []Node) []Node {
	out := make([]Node, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func indexIDs(items []Node) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		ids[it.ID] = struct{}{}
	}
	return ids
}

func childrenByParent(items []Node) map[string][]string {
	children := make(map[string][]string)
	for _, it := range items {
		if it.ParentID == "" {
			continue
		}
		children[it.ParentID] = append(children[it.ParentID], it.ID)
	}
	return children
}
