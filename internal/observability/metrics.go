// Package observability holds Prometheus metric definitions for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qaforum_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// ScreenshotHydrationFailures counts screenshot lookups that degraded
	// to a null attachment during reply tree or post assembly.
	ScreenshotHydrationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qaforum_screenshot_hydration_failures_total",
		Help: "Total number of screenshot blob lookups that failed during hydration",
	})

	// OrphanedBlobCompensations counts blob deletions issued to compensate
	// a failed relational insert.
	OrphanedBlobCompensations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qaforum_orphaned_blob_compensations_total",
		Help: "Total number of compensating blob deletes after a failed row insert",
	})
)
