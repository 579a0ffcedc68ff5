package hierarchy

// Validator answers ancestry questions with a bounded traversal depth.
type Validator struct {
	// MaxDepth is the number of hops below the ancestor a search may reach
	// before giving up. Values <= 0 fall back to MaxTreeDepth.
	MaxDepth int
}

// DefaultValidator returns a Validator using MaxTreeDepth.
func DefaultValidator() Validator {
	return Validator{MaxDepth: MaxTreeDepth}
}

func (v Validator) maxDepth() int {
	if v.MaxDepth <= 0 {
		return MaxTreeDepth
	}
	return v.MaxDepth
}

// IsDescendant reports whether descendantID sits under ancestorID using the
// default depth bound. A node is its own descendant.
func IsDescendant(items []Node, ancestorID, descendantID string) bool {
	return DefaultValidator().IsDescendant(items, ancestorID, descendantID)
}

// WouldCreateCycle reports whether re-parenting movingID under newParentID
// would make movingID its own ancestor. newParentID "" means the root.
func WouldCreateCycle(items []Node, movingID, newParentID string) bool {
	return DefaultValidator().WouldCreateCycle(items, movingID, newParentID)
}

// IsDescendant walks children of ancestorID depth-first with an explicit
// stack. Frames at MaxDepth are not expanded, so a branch deeper than the
// bound is cut off without hiding shallower siblings.
func (v Validator) IsDescendant(items []Node, ancestorID, descendantID string) bool {
	if ancestorID == descendantID {
		return true
	}
	children := childrenByParent(valid(items))
	limit := v.maxDepth()

	type frame struct {
		id    string
		depth int
	}
	stack := []frame{{id: ancestorID}}
	visited := make(map[string]bool)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == descendantID {
			return true
		}
		if cur.depth >= limit {
			continue
		}
		for _, child := range children[cur.id] {
			if !visited[child] {
				stack = append(stack, frame{id: child, depth: cur.depth + 1})
			}
		}
	}
	return false
}

// WouldCreateCycle is the bounded form of the package-level WouldCreateCycle.
func (v Validator) WouldCreateCycle(items []Node, movingID, newParentID string) bool {
	if newParentID == "" {
		return false
	}
	if movingID == newParentID {
		return true
	}
	return v.IsDescendant(items, movingID, newParentID)
}

// Ancestors returns the parent chain of id, nearest first. The walk ends at a
// root, at a parent missing from items, or when an id repeats.
func Ancestors(items []Node, id string) []string {
	nodes := valid(items)
	parent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		parent[n.ID] = n.ParentID
	}

	chain := []string{}
	seen := map[string]bool{id: true}
	cur, ok := parent[id]
	for ok && cur != "" {
		if seen[cur] {
			break
		}
		if _, known := parent[cur]; !known {
			break
		}
		seen[cur] = true
		chain = append(chain, cur)
		cur, ok = parent[cur]
	}
	return chain
}

// Subtree returns id followed by all of its descendants in pre-order. Ids
// absent from items yield just themselves.
func Subtree(items []Node, id string) []string {
	children := childrenByParent(valid(items))
	out := []string{}
	visited := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		kids := children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			if !visited[kids[i]] {
				stack = append(stack, kids[i])
			}
		}
	}
	return out
}
