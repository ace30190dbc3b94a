// Package metrics exposes Prometheus metrics for the recommendation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transfermatch"

// Annotation outcomes recorded per external-scorer call.
const (
	AnnotationOK          = "ok"
	AnnotationUnavailable = "unavailable"
)

var (
	recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Recommendation requests by outcome.",
	}, []string{"outcome"})

	candidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_scored_total",
		Help:      "Candidates that passed the hard filter and were scored.",
	})

	candidatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_skipped_total",
		Help:      "Candidates skipped because the store failed to serve them.",
	})

	annotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_annotations_total",
		Help:      "External scorer calls by outcome.",
	}, []string{"outcome"})

	annotationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "external_annotation_duration_seconds",
		Help:      "External scorer call latency.",
		Buckets:   prometheus.DefBuckets,
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func RecordRecommendation(outcome string) {
	recommendations.WithLabelValues(outcome).Inc()
}

func RecordCandidateScored() {
	candidatesScored.Inc()
}

func RecordCandidateSkipped() {
	candidatesSkipped.Inc()
}

func RecordAnnotation(outcome string, seconds float64) {
	annotations.WithLabelValues(outcome).Inc()
	annotationLatency.Observe(seconds)
}

func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func ObserveHTTPDuration(endpoint string, seconds float64) {
	httpDuration.WithLabelValues(endpoint).Observe(seconds)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
