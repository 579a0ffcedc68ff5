package hierarchy

// DetectCycles returns the ids whose parent pointers form a loop, including
// self-parented nodes. Ids that merely lead into a loop are not members.
// Results follow input order; callers should treat them as a set.
func DetectCycles(items []Node) []string {
	nodes := valid(items)
	ids := indexIDs(nodes)
	parent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if _, ok := ids[n.ParentID]; ok {
			parent[n.ID] = n.ParentID
		}
	}

	done := make(map[string]bool, len(nodes))
	inCycle := make(map[string]bool)
	for _, n := range nodes {
		if done[n.ID] {
			continue
		}
		// walk holds the current chain; onWalk maps an id to its index in it.
		var walk []string
		onWalk := make(map[string]int)
		cur := n.ID
		for {
			if done[cur] {
				break
			}
			if at, ok := onWalk[cur]; ok {
				for _, id := range walk[at:] {
					inCycle[id] = true
				}
				break
			}
			onWalk[cur] = len(walk)
			walk = append(walk, cur)
			next, ok := parent[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range walk {
			done[id] = true
		}
	}

	cycles := make([]string, 0, len(inCycle))
	for _, n := range nodes {
		if inCycle[n.ID] {
			cycles = append(cycles, n.ID)
		}
	}
	return cycles
}
