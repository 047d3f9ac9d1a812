package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweetboard",
		Name:      "fetch_total",
		Help:      "The total number of column fetches by outcome",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tweetboard",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of column fetches",
		Buckets:   prometheus.DefBuckets,
	})

	staleCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tweetboard",
		Name:      "fetch_stale_total",
		Help:      "The total number of fetch results discarded because a newer fetch was issued for the column",
	})
)
