// Package fetch retrieves the key dataset and record filters from a remote
// Source, consulting the local cache to avoid redundant dataset downloads.
//
// Dataset freshness: a cached entry younger than the TTL (24h by default) is
// returned without touching the network. Otherwise the Source is asked, and
// the result is written back to the cache. Cache write failures are logged
// and swallowed: they only affect future freshness, never the value returned.
//
// Record filters are never cached. The reserved full-key identity short
// circuits to an empty filter without any remote call.
//
// Concurrent FetchDataset calls that miss the cache share a single remote
// request.
package fetch
