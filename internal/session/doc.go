// Package session orchestrates key loading and navigation.
//
// A Session owns the active key identity, the pruned tree for that key, the
// current navigation node, and memoized step and species derivations.
//
// # Lifecycle
//
//	Idle ──SetActiveKey──▶ Loading ──▶ Ready
//	                          │
//	                          └──────▶ Failed
//
// Changing the active key resets every derivation before the new identity is
// installed. Each load runs fetch → build → prune → install; the dataset and
// the record filter are fetched concurrently and both must finish before the
// tree is built.
//
// # Supersession
//
// Every load is stamped with a token. A load commits only if its token and
// the identity it started with are still current, so a slow load for a key
// the user already left can never overwrite newer state. In-flight transport
// calls are not aborted; their results are dropped.
//
// # Navigation
//
// SetCurrentNode is a pure state update. Step lists and species listings are
// computed on demand and memoized by the node they were computed for. A lookup
// that misses (unknown lead, or a subtree emptied by pruning) clears the
// sticky CurrentNodeValid flag instead of returning an error; the next
// successful lookup sets it again.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent
// SetActiveKey calls resolve last-writer-wins.
package session
