package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupStale = "stale"
	lookupError = "error"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keynav_cache_lookups_total",
		Help: "Dataset cache lookups by outcome (hit, miss, stale, error).",
	}, []string{"result"})

	cacheWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keynav_cache_write_failures_total",
		Help: "Dataset cache writes that failed and were swallowed.",
	})

	remoteFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keynav_remote_fetches_total",
		Help: "Remote calls by operation (dataset, records) and outcome (ok, error).",
	}, []string{"op", "outcome"})
)

func observeRemote(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteFetchesTotal.WithLabelValues(op, outcome).Inc()
}
