package hierarchy

// Row is a TreeNode positioned for display.
type Row struct {
	Node  *TreeNode
	Depth int
}

// Flatten lists roots and their descendants in pre-order. Children of a node
// are included only when expanded reports true for its id; a nil expanded
// includes everything.
func Flatten(roots []*TreeNode, expanded func(id string) bool) []Row {
	var rows []Row
	type frame struct {
		node  *TreeNode
		depth int
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}
	seen := make(map[*TreeNode]bool)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur.node] {
			continue
		}
		seen[cur.node] = true
		rows = append(rows, Row{Node: cur.node, Depth: cur.depth})
		if expanded != nil && !expanded(cur.node.ID) {
			continue
		}
		for i := len(cur.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: cur.node.Children[i], depth: cur.depth + 1})
		}
	}
	return rows
}
