package fetch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/keynav/internal/cache"
	"github.com/roach88/keynav/internal/key"
)

// Defaults.
const (
	DefaultTTL     = 24 * time.Hour
	DefaultFullKey = "full"
)

// Source is the remote data service.
type Source interface {
	// Dataset returns the full flat lead list.
	Dataset(ctx context.Context) ([]key.Lead, error)

	// Records returns the record ids selected by a key identity.
	Records(ctx context.Context, identity string) ([]int, error)
}

// Cache is the subset of *cache.Store the fetcher needs.
type Cache interface {
	ReadEntry(ctx context.Context) (cache.Entry, bool, error)
	WriteEntry(ctx context.Context, e cache.Entry) error
}

// Fetcher retrieves datasets and record filters.
// Safe for concurrent use.
type Fetcher struct {
	source  Source
	cache   Cache
	now     func() time.Time
	ttl     time.Duration
	fullKey string
	logger  *slog.Logger

	datasetGroup singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock sets the wall clock used for freshness checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithTTL sets how long a cached dataset stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// WithFullKey sets the reserved identity of the unfiltered key.
func WithFullKey(identity string) Option {
	return func(f *Fetcher) {
		f.fullKey = identity
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// New creates a Fetcher. c may be nil, in which case every dataset request
// goes to the source.
func New(source Source, c Cache, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:  source,
		cache:   c,
		now:     time.Now,
		ttl:     DefaultTTL,
		fullKey: DefaultFullKey,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FullKey returns the reserved identity of the unfiltered key.
func (f *Fetcher) FullKey() string {
	return f.fullKey
}

// IsFullKey reports whether identity selects the unfiltered key.
func (f *Fetcher) IsFullKey(identity string) bool {
	return identity == f.fullKey
}

// FetchDataset returns the dataset, from the cache when the cached entry is
// fresh and from the source otherwise.
func (f *Fetcher) FetchDataset(ctx context.Context) ([]key.Lead, error) {
	if entry, ok := f.lookup(ctx); ok {
		return entry.Dataset, nil
	}
	return f.download(ctx)
}

// Refresh fetches the dataset from the source regardless of cache freshness
// and writes it back.
func (f *Fetcher) Refresh(ctx context.Context) ([]key.Lead, error) {
	return f.download(ctx)
}

// CachedEntry returns the cached entry without any freshness check.
func (f *Fetcher) CachedEntry(ctx context.Context) (cache.Entry, bool, error) {
	if f.cache == nil {
		return cache.Entry{}, false, nil
	}
	return f.cache.ReadEntry(ctx)
}

// FetchRecordFilter returns the record set selected by identity. The full key
// yields an empty set without a remote call.
func (f *Fetcher) FetchRecordFilter(ctx context.Context, identity string) (map[int]struct{}, error) {
	if f.IsFullKey(identity) {
		return map[int]struct{}{}, nil
	}

	f.logger.Debug("fetching record filter", "key", identity)
	ids, err := f.source.Records(ctx, identity)
	observeRemote("records", err)
	if err != nil {
		return nil, &TransportError{Op: "records", Identity: identity, Err: err}
	}

	f.logger.Debug("record filter fetched", "key", identity, "records", len(ids))
	return key.RecordSet(ids), nil
}

// lookup returns a fresh cached entry. Read failures count as a miss.
func (f *Fetcher) lookup(ctx context.Context) (cache.Entry, bool) {
	if f.cache == nil {
		return cache.Entry{}, false
	}

	entry, ok, err := f.cache.ReadEntry(ctx)
	switch {
	case err != nil:
		cacheLookupsTotal.WithLabelValues(lookupError).Inc()
		f.logger.Warn("cache read failed, fetching from source", "error", err)
		return cache.Entry{}, false
	case !ok:
		cacheLookupsTotal.WithLabelValues(lookupMiss).Inc()
		f.logger.Debug("dataset cache miss")
		return cache.Entry{}, false
	}

	now := f.now()
	if !entry.Fresh(now, f.ttl) {
		cacheLookupsTotal.WithLabelValues(lookupStale).Inc()
		f.logger.Debug("dataset cache stale", "age", entry.Age(now))
		return cache.Entry{}, false
	}

	cacheLookupsTotal.WithLabelValues(lookupHit).Inc()
	f.logger.Debug("dataset cache hit", "age", entry.Age(now), "leads", len(entry.Dataset))
	return entry, true
}

// download fetches from the source and writes the cache. Concurrent callers
// share one request. The shared request runs detached from any single
// caller's cancellation; each caller stops waiting when its own ctx is done.
func (f *Fetcher) download(ctx context.Context) ([]key.Lead, error) {
	shared := context.WithoutCancel(ctx)
	ch := f.datasetGroup.DoChan("dataset", func() (any, error) {
		f.logger.Info("fetching dataset")
		dataset, err := f.source.Dataset(shared)
		observeRemote("dataset", err)
		if err != nil {
			return nil, &TransportError{Op: "dataset", Err: err}
		}
		f.store(shared, dataset)
		f.logger.Info("dataset fetched", "leads", len(dataset))
		return dataset, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.Debug("dataset fetch shared with concurrent caller")
		}
		return res.Val.([]key.Lead), nil
	case <-ctx.Done():
		return nil, &TransportError{Op: "dataset", Err: ctx.Err()}
	}
}

// store writes the dataset back. Failures are swallowed.
func (f *Fetcher) store(ctx context.Context, dataset []key.Lead) {
	if f.cache == nil {
		return
	}
	if err := f.cache.WriteEntry(ctx, cache.NewEntry(dataset, f.now())); err != nil {
		cacheWriteFailuresTotal.Inc()
		f.logger.Warn("cache write failed", "error", err)
	}
}
