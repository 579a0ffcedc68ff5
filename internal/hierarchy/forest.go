package hierarchy

// BuildForestSafe drops every cycle member and builds a forest from what is
// left. The returned Tree is always a valid forest.
func BuildForestSafe(items []Node) Forest {
	nodes := valid(items)
	cycles := DetectCycles(nodes)
	excluded := make(map[string]bool, len(cycles))
	for _, id := range cycles {
		excluded[id] = true
	}

	ids := indexIDs(nodes)
	kept := make([]Node, 0, len(nodes)-len(cycles))
	dangling := []string{}
	detached := []string{}
	for _, n := range nodes {
		if excluded[n.ID] {
			continue
		}
		kept = append(kept, n)
		if n.ParentID == "" {
			continue
		}
		if _, ok := ids[n.ParentID]; !ok {
			dangling = append(dangling, n.ID)
		} else if excluded[n.ParentID] {
			detached = append(detached, n.ID)
		}
	}

	return Forest{
		Tree:     BuildTree(kept),
		Cycles:   cycles,
		Dangling: dangling,
		Detached: detached,
	}
}

// Summary holds counts describing a Forest.
type Summary struct {
	Total    int
	Roots    int
	MaxDepth int
	Cycles   int
	Dangling int
	Detached int
}

// Summarize counts the nodes placed in f. MaxDepth is zero-based, so a forest
// of lone roots has depth 0.
func Summarize(f Forest) Summary {
	s := Summary{
		Roots:    len(f.Tree),
		Cycles:   len(f.Cycles),
		Dangling: len(f.Dangling),
		Detached: len(f.Detached),
	}
	for _, row := range Flatten(f.Tree, nil) {
		s.Total++
		if row.Depth > s.MaxDepth {
			s.MaxDepth = row.Depth
		}
	}
	return s
}
