package session

import (
	"slices"

	"github.com/roach88/keynav/internal/key"
)

// SetCurrentNode moves navigation to leadID. RootNode selects the root.
// Validity is decided lazily by the next lookup.
func (s *Session) SetCurrentNode(leadID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = leadID
}

// ResetCurrentNode moves navigation back to the root.
func (s *Session) ResetCurrentNode() {
	s.SetCurrentNode(RootNode)
}

// CurrentNode returns the navigation node (RootNode for the root).
func (s *Session) CurrentNode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentNodeValid reports whether the last navigation lookup succeeded.
func (s *Session) CurrentNodeValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentValid
}

// Steps returns the renumbered step list for the current node: the node
// itself as lead 1, then its descendants in pre-order. The result is a copy.
func (s *Session) Steps() []key.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stepsLocked(s.current))
}

// StepsFor returns the renumbered step list starting at leadID. It leaves
// the current node, its memo, and CurrentNodeValid untouched.
func (s *Session) StepsFor(leadID int) []key.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.stepsFor.get(leadID); ok {
		return slices.Clone(v)
	}
	if s.tree == nil {
		return []key.Lead{}
	}
	steps, _ := s.flattenLocked(leadID)
	s.stepsFor.put(leadID, steps)
	return slices.Clone(steps)
}

// Descendants returns Steps without the starting node.
func (s *Session) Descendants() []key.Lead {
	steps := s.Steps()
	if len(steps) == 0 {
		return steps
	}
	return steps[1:]
}

// Species returns the deduplicated species reachable from the current node.
// The result is a copy.
func (s *Session) Species() []key.SpeciesEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.species.get(s.current)
	if !ok {
		v = key.UniqueSpeciesWithImages(s.stepsLocked(s.current))
		s.species.put(s.current, v)
	}
	return slices.Clone(v)
}

// SpeciesWithRecords returns the species reachable from the current node
// with the record ids behind each. The result is a deep copy.
func (s *Session) SpeciesWithRecords() []key.SpeciesWithRecords {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.speciesRecords.get(s.current)
	if !ok {
		v = key.UniqueSpeciesWithRecords(s.stepsLocked(s.current))
		s.speciesRecords.put(s.current, v)
	}

	out := make([]key.SpeciesWithRecords, len(v))
	for i, sp := range v {
		out[i] = key.SpeciesWithRecords{Name: sp.Name, Records: slices.Clone(sp.Records)}
	}
	return out
}

// Find resolves leadID to its lead in the installed tree and updates the
// CurrentNodeValid flag with the outcome.
func (s *Session) Find(leadID int) (key.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return key.Lead{}, false
	}
	n, ok := key.Find(s.tree, leadID)
	s.currentValid = ok
	if !ok {
		s.logger.Debug("lead not found", "lead", leadID)
		return key.Lead{}, false
	}
	return n.Lead, true
}

// stepsLocked resolves the navigation node against the memo and recomputes
// on a miss, updating CurrentNodeValid. Without an installed tree it returns
// an empty list and leaves the flag alone. Callers must not mutate the result.
func (s *Session) stepsLocked(node int) []key.Lead {
	if v, ok := s.steps.get(node); ok {
		s.currentValid = len(v) > 0
		return v
	}
	if s.tree == nil {
		return []key.Lead{}
	}

	steps, ok := s.flattenLocked(node)
	s.currentValid = ok
	if !ok {
		s.logger.Debug("navigation node has no steps", "lead", node)
	}
	s.steps.put(node, steps)
	return steps
}

// flattenLocked renumbers the subtree at node; RootNode selects the root.
func (s *Session) flattenLocked(node int) ([]key.Lead, bool) {
	start := node
	if start == RootNode && s.tree.Root() != nil {
		start = s.tree.Root().Lead.LeadID
	}
	return key.FlattenRenumbered(s.tree, start)
}
