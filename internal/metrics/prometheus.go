package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	queriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queries_created_total",
			Help: "Total number of patient queries created",
		},
		[]string{"category"},
	)

	queriesReviewed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queries_reviewed_total",
			Help: "Total number of clinician reviews",
		},
	)

	clinicianAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinician_assignments_total",
			Help: "Clinician assignments by match type",
		},
		[]string{"match"},
	)

	aiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Calls to the language model by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Completed registrations by role",
		},
		[]string{"role"},
	)
)

// Middleware records request counts, latency and in-flight requests.
// Paths are labelled by route template to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordQueryCreated(category string) {
	queriesCreated.WithLabelValues(category).Inc()
}

func RecordQueryReviewed() {
	queriesReviewed.Inc()
}

// RecordAssignment counts a clinician assignment; specialist is false when
// the fallback pool of all clinicians was used.
func RecordAssignment(specialist bool) {
	match := "specialist"
	if !specialist {
		match = "fallback"
	}
	clinicianAssignments.WithLabelValues(match).Inc()
}

func RecordAIRequest(step, outcome string) {
	aiRequests.WithLabelValues(step, outcome).Inc()
}

func RecordRegistration(role string) {
	registrations.WithLabelValues(role).Inc()
}
