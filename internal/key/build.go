package key

// Build converts a flat list of leads into a rooted Tree.
//
// Records may arrive in any order; a parent can appear before or after its
// children. Construction runs in two passes:
//  1. materialize every node and index it by lead id
//  2. attach each non-root node to its parent, in input order
//
// The second pass therefore preserves dataset order among siblings.
//
// Returns a *TreeError when a lead id is non-positive or repeated, a parent
// id resolves to no lead, zero or several leads declare themselves root, or
// some leads cannot be reached from the root (a parent cycle).
func Build(records []Lead) (*Tree, error) {
	t := &Tree{index: make(map[int]*Node, len(records))}
	nodes := make([]*Node, 0, len(records))

	// Pass 1: arena
	for _, rec := range records {
		if rec.LeadID <= 0 {
			return nil, newInvalidLeadError(rec.LeadID)
		}
		if _, dup := t.index[rec.LeadID]; dup {
			return nil, newDuplicateLeadError(rec.LeadID)
		}
		n := &Node{Lead: rec}
		t.index[rec.LeadID] = n
		nodes = append(nodes, n)
	}

	// Pass 2: linkage
	for _, n := range nodes {
		if n.Lead.IsRoot() {
			if t.root != nil {
				return nil, newAmbiguousRootError(n.Lead.LeadID, t.root.Lead.LeadID)
			}
			t.root = n
			continue
		}
		parent, ok := t.index[n.Lead.ParentID]
		if !ok {
			return nil, newMissingParentError(n.Lead.LeadID, n.Lead.ParentID)
		}
		n.parent = parent
		parent.Children = append(parent.Children, n)
	}

	if t.root == nil {
		return nil, newMissingRootError()
	}

	// With one root and every parent resolved, anything the root cannot
	// reach is part of a parent cycle.
	if reached := len(preorder(t.root)); reached != len(nodes) {
		return nil, newCycleError(len(nodes) - reached)
	}

	return t, nil
}

// preorder returns the nodes of the subtree rooted at start, node first and
// then children in stored order. Iterative so deep keys cannot exhaust the stack.
func preorder(start *Node) []*Node {
	if start == nil {
		return nil
	}
	var out []*Node
	stack := []*Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}
