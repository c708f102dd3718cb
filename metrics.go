package lexgen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCompilationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lexgen",
		Subsystem: "compiler",
		Name:      "compilations_total",
		Help:      "Rule set compilations by result (ok, error, cached).",
	}, []string{"result"})
	metricRulesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lexgen",
		Subsystem: "compiler",
		Name:      "rules_total",
		Help:      "Rules compiled to NFAs.",
	})
	metricCompileSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexgen",
		Subsystem: "compiler",
		Name:      "compile_seconds",
		Help:      "Time to compile a rule set to a table.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	metricDFAStates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexgen",
		Subsystem: "compiler",
		Name:      "dfa_states",
		Help:      "Number of DFA states per compiled rule set.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)

const (
	resultOK     = "ok"
	resultError  = "error"
	resultCached = "cached"
)
