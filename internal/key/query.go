package key

// Find returns the node for leadID. The boolean is false when the id is not
// in the tree; Find never fails otherwise.
func Find(t *Tree, leadID int) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.index[leadID]
	return n, ok
}

// Flatten returns the pre-order step list of the tree, starting at the root
// when from is nil and at the node for *from otherwise.
//
// The starting node is always the first element. Callers that only want
// descendants drop it themselves. An unresolved from yields an empty list.
func Flatten(t *Tree, from *int) []Lead {
	start := t.Root()
	if from != nil {
		n, ok := Find(t, *from)
		if !ok {
			return []Lead{}
		}
		start = n
	}
	nodes := preorder(start)
	steps := make([]Lead, len(nodes))
	for i, n := range nodes {
		steps[i] = n.Lead
	}
	return steps
}

// FlattenRenumbered is Flatten starting at from, with every LeadID and
// ParentID shifted by -(from-1) so the starting node becomes lead 1.
// Non-identifier fields pass through unchanged.
//
// The boolean is false, and the list empty, when from does not resolve to a
// node of the (possibly pruned) tree.
func FlattenRenumbered(t *Tree, from int) ([]Lead, bool) {
	steps := Flatten(t, &from)
	if len(steps) == 0 {
		return steps, false
	}
	offset := from - 1
	for i := range steps {
		steps[i].LeadID -= offset
		steps[i].ParentID -= offset
	}
	return steps, true
}
