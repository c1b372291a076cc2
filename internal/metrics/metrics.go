package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasktally_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	TasksSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasktally_tasks_submitted_total",
			Help: "Total task records persisted",
		},
	)

	TasksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasktally_tasks_completed_total",
			Help: "Total task records marked complete",
		},
	)

	SummariesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_summaries_posted_total",
			Help: "Total daily summary messages posted",
		},
		[]string{"result"}, // "ok" or "error"
	)

	SummaryEdits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_summary_edits_total",
			Help: "Total daily summary message edits",
		},
		[]string{"result"}, // "ok" or "error"
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_reminders_sent_total",
			Help: "Total scheduled reminder notifications",
		},
		[]string{"result"}, // "ok" or "error"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktally_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)
)
