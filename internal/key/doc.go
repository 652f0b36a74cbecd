// Package key implements the identification key model and its query engine.
//
// A key is a flat list of leads. Each lead either asks a question (and has
// child leads) or terminates at a species. The package turns that flat list
// into a rooted tree and answers the questions a navigator asks of it:
//
//   - Build: two-pass construction of a Tree from unordered Lead records
//   - FilterByRecords / ReduceFullKey: in-place pruning strategies
//   - Find / Flatten / FlattenRenumbered: lookups and pre-order step lists
//   - UniqueSpeciesWithImages / UniqueSpeciesWithRecords: species listings
//
// # Invariants
//
// Tree shape:
//   - exactly one root per built tree
//   - every non-root node's parent is present in the same tree
//   - every lead id appears in exactly one node
//   - no cycles (a node is attached to one parent at build time and never re-parented)
//
// Ordering:
//   - children keep dataset order
//   - step lists are pre-order (node, then children in stored order)
//   - species listings are sorted by name, byte-wise
//
// Everything in this package is a pure function of its arguments, except the
// pruning strategies which mutate the tree they are given. Nothing here is
// safe for concurrent mutation; callers own synchronisation.
package key
