package session

import "errors"

// State is the load state of a Session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNoActiveKey is returned when a fetch is requested before any key
	// identity was set.
	ErrNoActiveKey = errors.New("no active key set")

	// ErrSuperseded is returned by a load whose result was dropped because a
	// newer load or key change replaced it.
	ErrSuperseded = errors.New("load superseded by a newer request")

	// ErrDisposed is returned by operations on a disposed Session.
	ErrDisposed = errors.New("session disposed")
)

// memo caches one derivation together with the node it was computed for.
type memo[T any] struct {
	node  int
	valid bool
	value T
}

func (m *memo[T]) get(node int) (T, bool) {
	if m.valid && m.node == node {
		return m.value, true
	}
	var zero T
	return zero, false
}

func (m *memo[T]) put(node int, value T) {
	m.node = node
	m.value = value
	m.valid = true
}

func (m *memo[T]) clear() {
	var zero T
	m.node = 0
	m.value = zero
	m.valid = false
}
