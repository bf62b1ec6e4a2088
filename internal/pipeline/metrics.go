package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	parsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_parses_total",
		Help: "Parse requests handled by the transaction parsing pipeline.",
	})

	escalationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_parse_escalations_total",
		Help: "Rule parses below the confidence threshold that were escalated to the model.",
	})

	escalationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracy_parse_escalation_failures_total",
		Help: "Escalations that failed and fell back to the rule-based result.",
	})
)
