package key

// FilterByRecords keeps only the paths that can reach one of the given records.
//
// A leaf survives iff its RecordID is in records. A question lead survives iff
// at least one of its descendants survives. The tree is mutated in place and
// returned; when nothing survives the result is an empty tree (Root() == nil),
// which is a legal outcome the caller must check with Empty().
//
// Leaf-ness is judged on the tree as given, so a question lead whose whole
// subtree was dropped is removed rather than treated as a new leaf. This makes
// the filter idempotent for a fixed record set.
func FilterByRecords(t *Tree, records map[int]struct{}) *Tree {
	return t.prune(func(n *Node, hadChildren bool) bool {
		if hadChildren {
			return len(n.Children) > 0
		}
		_, ok := records[n.Lead.RecordID]
		return ok
	})
}

// ReduceFullKey applies the full-key policy used when no record filter is
// active: dead-end leaves (no children, no species) are dropped, cascading
// upward until every remaining leaf names a species. The root is never
// removed, and the lookup index stays consistent with the surviving nodes.
func ReduceFullKey(t *Tree) *Tree {
	root := t.Root()
	return t.prune(func(n *Node, _ bool) bool {
		return n == root || len(n.Children) > 0 || n.Lead.Species != nil
	})
}

// RecordSet builds the membership set FilterByRecords expects.
func RecordSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// prune visits nodes children-first (reverse pre-order), trims each node's
// child list down to the survivors, then asks keep whether the node itself
// survives. hadChildren reports the node's child count before trimming.
func (t *Tree) prune(keep func(n *Node, hadChildren bool) bool) *Tree {
	if t.Empty() {
		return t
	}

	order := preorder(t.root)
	dropped := make(map[*Node]bool)

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		hadChildren := len(n.Children) > 0

		if hadChildren {
			kept := n.Children[:0]
			for _, c := range n.Children {
				if !dropped[c] {
					kept = append(kept, c)
				}
			}
			// Clear the tail so dropped nodes are not retained by the backing array.
			for j := len(kept); j < len(n.Children); j++ {
				n.Children[j] = nil
			}
			n.Children = kept
		}

		if !keep(n, hadChildren) {
			dropped[n] = true
		}
	}

	for n := range dropped {
		delete(t.index, n.Lead.LeadID)
		n.parent = nil
	}
	if dropped[t.root] {
		t.root = nil
	}

	return t
}
