package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fit_analyses_total",
		Help: "Fit analyses by engine mode and outcome",
	}, []string{"mode", "outcome"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fit_analysis_duration_seconds",
		Help:    "End-to-end fit analysis duration",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"mode"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fit_engine_stage_duration_seconds",
		Help:    "Duration of individual engine calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	stageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fit_engine_stage_failures_total",
		Help: "Failed engine calls by stage and reason",
	}, []string{"stage", "reason"})

	normalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fit_normalized_total",
		Help: "Normalized payloads by detected kind",
	}, []string{"kind"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fit_http_requests_total",
		Help: "HTTP requests by route and status class",
	}, []string{"route", "class"})
)

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(mode, outcome string, d time.Duration) {
	analysesTotal.WithLabelValues(mode, outcome).Inc()
	analysisDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveStage records one engine call.
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Stage failure reasons.
const (
	FailureTimeout   = "timeout"
	FailureStatus    = "status" // non-2xx reply
	FailureTransport = "transport"
)

// IncStageFailure counts a failed engine call. reason is one of the
// Failure* constants.
func IncStageFailure(stage, reason string) {
	stageFailures.WithLabelValues(stage, reason).Inc()
}

// IncNormalized counts one normalizer run by detected kind.
func IncNormalized(kind string) {
	normalizedTotal.WithLabelValues(kind).Inc()
}

// IncHTTPRequest counts one HTTP request.
func IncHTTPRequest(route string, status int) {
	httpRequests.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
