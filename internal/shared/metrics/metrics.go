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
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	simulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_total",
			Help: "Simulations run, by plan tier",
		},
		[]string{"plan"},
	)

	simulationsOverLimitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_over_limit_total",
			Help: "Simulations whose usage exceeded the plan limits",
		},
		[]string{"plan"},
	)

	peerSuggestionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "peer_suggestions_total",
			Help: "Peer-reference suggestions produced by overlap detection",
		},
	)

	resumeIntakeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_intake_total",
			Help: "Résumé submissions by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	usageRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_rejected_total",
			Help: "Usage consumption attempts rejected, by kind and reason",
		},
		[]string{"kind", "reason"},
	)
)

// ObserveSimulation records one simulation run.
func ObserveSimulation(plan string, overLimit bool) {
	simulationsTotal.WithLabelValues(plan).Inc()
	if overLimit {
		simulationsOverLimitTotal.WithLabelValues(plan).Inc()
	}
}

// AddPeerSuggestions counts newly produced suggestions.
func AddPeerSuggestions(n int) {
	if n > 0 {
		peerSuggestionsTotal.Add(float64(n))
	}
}

// IncResumeIntake counts a résumé submission.
func IncResumeIntake(source, outcome string) {
	resumeIntakeTotal.WithLabelValues(source, outcome).Inc()
}

// IncUsageRejected counts a refused usage consumption.
func IncUsageRejected(kind, reason string) {
	usageRejectedTotal.WithLabelValues(kind, reason).Inc()
}

// Middleware records request latency keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
