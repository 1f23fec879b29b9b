package paging

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/livelist/livelist/internal/build"
)

var (
	pageRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "page_requests_total",
		Help:      "The total number of page requests resolved, labeled by page and outcome.",
	}, []string{"page", "outcome"})

	pageRequestDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:                       build.ProjectName,
		Name:                            "page_request_duration_ms",
		Help:                            "The time (in ms) between issuing a page request and resolving it, labeled by page.",
		Buckets:                         []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		NativeHistogramBucketFactor:     1.1,
		NativeHistogramMaxBucketNumber:  100,
		NativeHistogramMinResetDuration: time.Hour,
	}, []string{"page"})

	deduplicatedRequestCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "deduplicated_page_requests_total",
		Help:      "The total number of page requests that shared an in-flight request.",
	})

	invalidationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "invalidations_total",
		Help:      "The total number of invalidations submitted, labeled by reason.",
	}, []string{"reason"})

	graceWindowCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "grace_window_total",
		Help:      "The total number of grace windows that ended, labeled by outcome (follow_up or timeout).",
	}, []string{"outcome"})

	sessionsCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "paginator_sessions_created_total",
		Help:      "The total number of live paginator sessions created.",
	})

	staleUpdateCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "stale_updates_dropped_total",
		Help:      "The total number of updates dropped because their session was no longer live.",
	})
)

const (
	outcomeItems     = "items"
	outcomeEmpty     = "empty"
	outcomeUpstream  = "upstream_error"
	outcomeAbandoned = "abandoned"
	graceFollowUp    = "follow_up"
	graceTimeout     = "timeout"
)

func observeResolution(page PageToLoad, start time.Time, n int, err error) {
	outcome := outcomeItems
	switch {
	case err != nil && isUpstream(err):
		outcome = outcomeUpstream
	case err != nil:
		outcome = outcomeAbandoned
	case n == 0:
		outcome = outcomeEmpty
	}
	pageRequestCounter.WithLabelValues(page.String(), outcome).Inc()
	pageRequestDurationHistogram.WithLabelValues(page.String()).Observe(float64(time.Since(start).Milliseconds()))
}
