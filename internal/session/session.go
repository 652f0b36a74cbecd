package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/keynav/internal/key"
)

// RootNode selects the root of the active tree as the navigation node.
const RootNode = 0

// Fetcher is what a Session needs from the fetch layer. *fetch.Fetcher
// satisfies it.
type Fetcher interface {
	FetchDataset(ctx context.Context) ([]key.Lead, error)
	FetchRecordFilter(ctx context.Context, identity string) (map[int]struct{}, error)
	IsFullKey(identity string) bool
}

// Session holds the active key and its navigation state.
type Session struct {
	fetcher Fetcher
	tokens  TokenGenerator
	logger  *slog.Logger

	mu        sync.Mutex
	identity  string
	state     State
	loadToken string
	pending   chan struct{}
	err       error
	disposed  bool

	tree         *key.Tree
	current      int
	currentValid bool

	steps          memo[[]key.Lead]
	stepsFor       memo[[]key.Lead]
	species        memo[[]key.SpeciesEntry]
	speciesRecords memo[[]key.SpeciesWithRecords]
}

// Option configures a Session.
type Option func(*Session)

// WithTokenGenerator overrides the load token generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Session) {
		s.tokens = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New creates an idle Session.
func New(f Fetcher, opts ...Option) *Session {
	s := &Session{
		fetcher:      f,
		tokens:       UUIDv7Generator{},
		logger:       slog.Default(),
		currentValid: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetActiveKey installs identity and starts loading it in the background.
// A different identity first resets all derived state. The returned channel
// is closed once this load has committed, failed, or been superseded.
//
// An empty identity resets the session to Idle.
func (s *Session) SetActiveKey(ctx context.Context, identity string) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.disposed || identity == "" {
		if !s.disposed {
			s.resetLocked()
		}
		s.mu.Unlock()
		close(done)
		return done
	}
	if identity != s.identity {
		s.resetLocked()
		s.identity = identity
	}
	token := s.beginLoadLocked(done)
	s.mu.Unlock()

	go func() {
		defer close(done)
		_ = s.load(ctx, identity, token)
	}()
	return done
}

// Fetch loads the active key synchronously. It returns ErrNoActiveKey when
// no key is set, ErrSuperseded when a newer request replaced this one, and
// the pipeline error otherwise.
func (s *Session) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.identity == "" {
		// Only the message changes.
		s.err = ErrNoActiveKey
		s.mu.Unlock()
		return ErrNoActiveKey
	}
	identity := s.identity
	done := make(chan struct{})
	token := s.beginLoadLocked(done)
	s.mu.Unlock()

	defer close(done)
	return s.load(ctx, identity, token)
}

// Wait blocks until the most recent load finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()

	if pending == nil {
		return nil
	}
	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) beginLoadLocked(done chan struct{}) string {
	token := s.tokens.Generate()
	s.loadToken = token
	s.pending = done
	s.state = StateLoading
	s.err = nil
	return token
}

// load runs fetch → build → prune, then commits under the supersession guard.
func (s *Session) load(ctx context.Context, identity, token string) error {
	log := s.logger.With("key", identity, "token", token)
	log.Debug("load started")

	tree, err := s.build(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadToken != token || s.identity != identity {
		log.Debug("load superseded, dropping result")
		return ErrSuperseded
	}
	s.loadToken = ""

	if err != nil {
		s.failLocked(err)
		log.Warn("load failed", "error", err)
		return err
	}

	s.installLocked(tree)
	log.Info("key loaded", "nodes", tree.Len(), "empty", tree.Empty())
	return nil
}

// build fetches the dataset and record filter side by side, then builds and
// prunes the tree.
func (s *Session) build(ctx context.Context, identity string) (*key.Tree, error) {
	var (
		dataset []key.Lead
		records map[int]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dataset, err = s.fetcher.FetchDataset(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.fetcher.FetchRecordFilter(gctx, identity)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree, err := key.Build(dataset)
	if err != nil {
		return nil, fmt.Errorf("build key %q: %w", identity, err)
	}

	if s.fetcher.IsFullKey(identity) {
		return key.ReduceFullKey(tree), nil
	}
	return key.FilterByRecords(tree, records), nil
}

func (s *Session) installLocked(tree *key.Tree) {
	s.tree = tree
	s.state = StateReady
	s.err = nil
	s.clearDerivationsLocked()
	if tree.Empty() {
		s.currentValid = false
	}
}

// failLocked records err. A malformed dataset also discards the installed
// tree; transport failures leave it in place.
func (s *Session) failLocked(err error) {
	s.state = StateFailed
	s.err = err
	if key.IsMalformedTree(err) {
		s.tree = nil
		s.clearDerivationsLocked()
	}
}

func (s *Session) clearDerivationsLocked() {
	s.steps.clear()
	s.stepsFor.clear()
	s.species.clear()
	s.speciesRecords.clear()
}

func (s *Session) resetLocked() {
	s.identity = ""
	s.state = StateIdle
	s.loadToken = ""
	s.pending = nil
	s.err = nil
	s.tree = nil
	s.current = RootNode
	s.currentValid = true
	s.clearDerivationsLocked()
}

// Reset returns the session to Idle and drops every derivation. In-flight
// loads are superseded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Dispose resets the session and refuses further loads.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.disposed = true
}

// Identity returns the active key identity ("" when idle).
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// State returns the current load state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether a load is in flight.
func (s *Session) Loading() bool {
	return s.State() == StateLoading
}

// Err returns the last recorded error, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrorMessage returns the user-visible message of the last error, or "".
func (s *Session) ErrorMessage() string {
	if err := s.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Tree returns the installed tree, or nil. Callers must not mutate it.
func (s *Session) Tree() *key.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}
