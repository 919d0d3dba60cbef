// Package metrics holds the Prometheus collectors for the exercise tracker.
//
// Collectors are registered on a private registry rather than the default
// one, so /metrics shows only what this service records plus the Go and
// process collectors added in init.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exercise_tracker"

var registry = prometheus.NewRegistry() //nolint:gochecknoglobals

var (
	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	usersCreated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Users successfully created.",
	})

	exercisesLogged = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercises_logged_total",
		Help:      "Exercises successfully stored.",
	})
)

func init() { //nolint:gochecknoinits
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry that /metrics serves.
func Registry() *prometheus.Registry {
	return registry
}

// RecordHTTPRequest counts one finished request and observes its latency.
// route should be the router pattern (e.g. "/api/users/{id}/logs"), never the
// raw path, to keep label cardinality bounded.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func RecordUserCreated() {
	usersCreated.Inc()
}

func RecordExerciseLogged() {
	exercisesLogged.Inc()
}
