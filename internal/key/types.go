package key

// NoParent is the parent id sentinel that marks a root lead.
// A lead whose ParentID equals its own LeadID is also a root.
const NoParent = 0

// Lead is one record of the flat key dataset.
//
// Species is non-nil only on terminal leads. RecordID names the specimen or
// observation that justified including a terminal lead; it carries no meaning
// on question leads.
type Lead struct {
	LeadID       int     `json:"lead_id"`
	ParentID     int     `json:"parent_id"`
	Text         string  `json:"text"`
	LeadImage    *string `json:"lead_image"`
	SpeciesImage *string `json:"species_image"`
	Species      *string `json:"species"`
	RecordID     int     `json:"record_id"`
}

// IsRoot reports whether the record declares itself as the root of the key.
func (l Lead) IsRoot() bool {
	return l.ParentID == NoParent || l.ParentID == l.LeadID
}

// SpeciesName returns the species name, or "" for question leads.
func (l Lead) SpeciesName() string {
	if l.Species == nil {
		return ""
	}
	return *l.Species
}

// Node wraps one Lead inside a Tree.
type Node struct {
	Lead     Lead
	Children []*Node

	parent *Node
}

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether the node currently has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree owns every Node built from one dataset.
// The index maps lead id to node for constant-time lookup.
type Tree struct {
	root  *Node
	index map[int]*Node
}

// Root returns the root node, or nil when pruning removed everything.
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.index)
}

// Empty reports whether the tree has no nodes left.
func (t *Tree) Empty() bool {
	return t.Len() == 0
}

// SpeciesEntry is one row of a deduplicated species listing.
type SpeciesEntry struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// SpeciesWithRecords groups the record ids that lead to one species.
type SpeciesWithRecords struct {
	Name    string `json:"name"`
	Records []int  `json:"records"`
}
