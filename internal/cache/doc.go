// Package cache provides the SQLite-backed local cache for the key dataset.
//
// The cache holds two logical stores:
//   - snapshots: the last fetched dataset, keyed by DatasetKey
//   - fetches: the epoch-millisecond time of that fetch, keyed by FetchKey
//
// An entry is present only when both rows exist. Entries are overwritten on
// every successful remote fetch and never deleted; a stale entry is simply
// superseded by the next write. Freshness is decided by the caller (see
// Entry.Fresh).
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// The schema has a single creation step tracked by PRAGMA user_version.
package cache
