package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetadataHitsTotal tracks metadata cache hits.
	MetadataHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketbot_metadata_cache_hits_total",
		Help: "Total number of token metadata cache hits",
	})

	// MetadataMissesTotal tracks metadata cache misses.
	MetadataMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketbot_metadata_cache_misses_total",
		Help: "Total number of token metadata cache misses",
	})
)
