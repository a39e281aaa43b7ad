package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "api_http_requests_total", Help: "HTTP requests"},
		[]string{"method", "path", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CampaignsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "campaigns_accepted_total", Help: "Campaign batches accepted"},
	)
	CampaignsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campaigns_rejected_total", Help: "Campaign batches rejected"},
		[]string{"reason"},
	)
	CampaignActive = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "campaign_active", Help: "1 while a batch is in flight"},
	)
	EmailsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "emails_scheduled_total", Help: "Emails armed for delivery"},
	)
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "emails_sent_total", Help: "Emails accepted by the mail provider"},
	)
	EmailsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "emails_failed_total", Help: "Emails that ended with an error"},
		[]string{"reason"},
	)
	EmailSendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "email_send_duration_seconds",
			Help:    "Time spent in the mail provider per email",
			Buckets: prometheus.DefBuckets,
		},
	)
	OutcomePublishErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "outcome_publish_errors_total", Help: "Outcome events that could not be published"},
	)

	RecorderConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "recorder_events_consumed_total", Help: "Outcome events consumed"},
	)
	RecorderStored = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "recorder_events_stored_total", Help: "Outcome events stored"},
	)
	RecorderRetries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "recorder_retries_total", Help: "Retries performed"},
	)
	RecorderDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "recorder_events_dropped_total", Help: "Events dropped after retries or bad payload"},
	)
	RecorderProcessDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recorder_event_process_duration_seconds",
			Help:    "Time spent processing an outcome event",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal, APIRequestDuration,
		CampaignsAccepted, CampaignsRejected, CampaignActive,
		EmailsScheduled, EmailsSent, EmailsFailed, EmailSendDuration, OutcomePublishErrors,
		RecorderConsumed, RecorderStored, RecorderRetries, RecorderDropped, RecorderProcessDuration,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
