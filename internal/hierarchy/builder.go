package hierarchy

import "sort"

// BuildTree converts items into a forest ordered by Order, ties broken by
// input order. Items whose parent is missing are placed at the root.
//
// BuildTree does not guard against cycles: members of a loop get attached to
// each other and vanish from the root list. Use BuildForestSafe for data that
// has not been checked.
func BuildTree(items []Node) []*TreeNode {
	nodes := valid(items)
	if len(nodes) == 0 {
		return []*TreeNode{}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})

	// All TreeNodes live in one backing slice; pointers into it stay valid
	// because it is never appended to.
	arena := make([]TreeNode, len(nodes))
	byID := make(map[string]*TreeNode, len(nodes))
	for i, n := range nodes {
		arena[i] = TreeNode{Node: n}
		byID[n.ID] = &arena[i]
	}

	roots := make([]*TreeNode, 0, len(nodes))
	for i := range arena {
		node := &arena[i]
		if node.ParentID != "" {
			if parent, ok := byID[node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
