package hierarchy

import "sort"

// Placement is the parent and sibling position a node should be written with.
type Placement struct {
	ID       string
	ParentID string
	Order    int
}

// NextOrder returns the order a new child of parentID should take: one past
// the largest sibling order, or 0 when there are no siblings.
func NextOrder(items []Node, parentID string) int {
	next := 0
	for _, n := range valid(items) {
		if n.ParentID == parentID && n.Order+1 > next {
			next = n.Order + 1
		}
	}
	return next
}

// PlanMove computes the writes for re-parenting movingID under newParentID
// using the default depth bound.
func PlanMove(items []Node, movingID, newParentID string) ([]Placement, error) {
	return DefaultValidator().PlanMove(items, movingID, newParentID)
}

// PlanMove checks the move and computes the writes for it. The moved node
// takes NextOrder under its new parent and its old siblings are renumbered
// from 0.
// Moving to the current parent plans nothing.
func (v Validator) PlanMove(items []Node, movingID, newParentID string) ([]Placement, error) {
	nodes := valid(items)
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	moving, ok := byID[movingID]
	if !ok {
		return nil, unknownNodeError(movingID)
	}
	if newParentID != "" {
		if _, ok := byID[newParentID]; !ok {
			return nil, invalidMoveError("target group %s does not exist", newParentID)
		}
	}
	if v.WouldCreateCycle(nodes, movingID, newParentID) {
		return nil, cyclicMoveError(movingID, newParentID)
	}
	if moving.ParentID == newParentID {
		return nil, nil
	}

	plan := []Placement{{
		ID:       movingID,
		ParentID: newParentID,
		Order:    NextOrder(nodes, newParentID),
	}}
	plan = append(plan, renumber(siblings(nodes, moving.ParentID, movingID))...)
	return plan, nil
}

// PlanReorder moves draggedID in front of targetID within their shared
// parent and renumbers the siblings.
func PlanReorder(items []Node, draggedID, targetID string) ([]Placement, error) {
	nodes := valid(items)
	dragged, target, err := siblingPair(nodes, draggedID, targetID)
	if err != nil {
		return nil, err
	}
	if dragged.ID == target.ID {
		return nil, nil
	}
	rest := siblings(nodes, dragged.ParentID, dragged.ID)
	at := 0
	for i, n := range rest {
		if n.ID == target.ID {
			at = i
			break
		}
	}
	return renumber(insertAt(rest, dragged, at)), nil
}

// PlanShift moves id by delta positions among its siblings, clamped to the
// ends of the list.
func PlanShift(items []Node, id string, delta int) ([]Placement, error) {
	nodes := valid(items)
	var node Node
	found := false
	for _, n := range nodes {
		if n.ID == id {
			node, found = n, true
			break
		}
	}
	if !found {
		return nil, unknownNodeError(id)
	}
	all := siblings(nodes, node.ParentID, "")
	pos := 0
	for i, n := range all {
		if n.ID == id {
			pos = i
			break
		}
	}
	at := pos + delta
	if at < 0 {
		at = 0
	}
	if at > len(all)-1 {
		at = len(all) - 1
	}
	if at == pos {
		return nil, nil
	}
	rest := siblings(nodes, node.ParentID, id)
	return renumber(insertAt(rest, node, at)), nil
}

func siblingPair(nodes []Node, aID, bID string) (Node, Node, error) {
	var a, b Node
	var okA, okB bool
	for _, n := range nodes {
		if n.ID == aID {
			a, okA = n, true
		}
		if n.ID == bID {
			b, okB = n, true
		}
	}
	if !okA {
		return Node{}, Node{}, unknownNodeError(aID)
	}
	if !okB {
		return Node{}, Node{}, unknownNodeError(bID)
	}
	if a.ParentID != b.ParentID {
		return Node{}, Node{}, invalidMoveError("%s and %s are not siblings", aID, bID)
	}
	return a, b, nil
}

// siblings returns the children of parentID ordered for display, leaving out
// skipID.
func siblings(nodes []Node, parentID, skipID string) []Node {
	var out []Node
	for _, n := range nodes {
		if n.ParentID == parentID && n.ID != skipID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func insertAt(list []Node, n Node, at int) []Node {
	out := make([]Node, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, n)
	return append(out, list[at:]...)
}

// renumber assigns orders 0..n-1 and returns only the nodes whose order
// changes.
func renumber(list []Node) []Placement {
	var out []Placement
	for i, n := range list {
		if n.Order == i {
			continue
		}
		out = append(out, Placement{ID: n.ID, ParentID: n.ParentID, Order: i})
	}
	return out
}
