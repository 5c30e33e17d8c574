package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// authOps counts authentication operations by outcome. Outcomes are the
// user-visible failure classes, not internal reasons, so cardinality stays
// flat and the counter leaks nothing the API itself does not.
var authOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "campus",
	Subsystem: "auth",
	Name:      "operations_total",
	Help:      "Authentication operations by operation and outcome.",
}, []string{"op", "outcome"})

func countOp(op, outcome string) {
	authOps.WithLabelValues(op, outcome).Inc()
}
