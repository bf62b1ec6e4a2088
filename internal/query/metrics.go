package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_query_cache_hits_total",
		Help: "Queries answered straight from the response cache.",
	})

	localAnswersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_query_local_answers_total",
		Help: "Queries answered by the local intent answerer.",
	})

	narrativeCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_query_narrative_calls_total",
		Help: "Queries that fell through to the narrative-generation model.",
	})
)
