package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/keynav/internal/key"
)

// Source is an in-memory fetch.Source with call counting and per-identity
// gates for ordering concurrent fetches in tests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Source struct {
	mu           sync.Mutex
	leads        []key.Lead
	records      map[string][]int
	datasetErr   error
	recordsErr   error
	gates        map[string]chan struct{}
	datasetGate  chan struct{}
	datasetCalls int
	recordsCalls int
}

// NewSource serves leads and the given identity → record ids mapping.
func NewSource(leads []key.Lead, records map[string][]int) *Source {
	if records == nil {
		records = map[string][]int{}
	}
	return &Source{
		leads:   leads,
		records: records,
		gates:   map[string]chan struct{}{},
	}
}

// FailDataset makes subsequent Dataset calls return err (nil clears it).
func (s *Source) FailDataset(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasetErr = err
}

// FailRecords makes subsequent Records calls return err (nil clears it).
func (s *Source) FailRecords(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordsErr = err
}

// SetLeads replaces the served dataset.
func (s *Source) SetLeads(leads []key.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = leads
}

// Gate blocks Records calls for identity until the returned release func is
// called. Release is idempotent.
func (s *Source) Gate(identity string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{})
	s.gates[identity] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// GateDataset blocks Dataset calls until the returned release func is
// called, or the caller's ctx is done. Release is idempotent.
func (s *Source) GateDataset() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{})
	s.datasetGate = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many times Dataset and Records were invoked.
func (s *Source) Calls() (dataset, records int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.datasetCalls, s.recordsCalls
}

// Dataset implements fetch.Source.
func (s *Source) Dataset(ctx context.Context) ([]key.Lead, error) {
	s.mu.Lock()
	s.datasetCalls++
	gate := s.datasetGate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.datasetErr != nil {
		return nil, s.datasetErr
	}
	out := make([]key.Lead, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

// Records implements fetch.Source.
func (s *Source) Records(ctx context.Context, identity string) ([]int, error) {
	s.mu.Lock()
	s.recordsCalls++
	gate := s.gates[identity]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordsErr != nil {
		return nil, s.recordsErr
	}
	ids, ok := s.records[identity]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", identity)
	}
	return append([]int(nil), ids...), nil
}
