package app

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route, and status class.",
	}, []string{"method", "route", "class"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campus",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"route"})
)

func observeRequest(method, path string, status int, d time.Duration) {
	route := metricRoute(path)
	httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// metricRoute maps request paths onto the fixed route surface so arbitrary
// URLs cannot inflate label cardinality.
func metricRoute(path string) string {
	switch path {
	case "/healthz", "/readyz", "/metrics":
		return path
	}
	if strings.HasPrefix(path, "/auth/") {
		return path
	}
	return "other"
}
