package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taxes_app_webhook_requests_total",
		Help: "Webhook invocations by event.",
	}, []string{"event"})

	webhookErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taxes_app_webhook_errors_total",
		Help: "Webhook failures by event and error kind.",
	}, []string{"event", "kind"})

	webhookDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taxes_app_webhook_duration_seconds",
		Help:    "End-to-end webhook processing time by event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})

	providerCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taxes_app_provider_calls_total",
		Help: "Outbound tax provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})
)

// Metric accessors for tests and monitoring wiring. The metrics themselves
// are registered globally via promauto.

func GetWebhookRequestsTotal() *prometheus.CounterVec { return webhookRequestsTotal }

func GetWebhookErrorsTotal() *prometheus.CounterVec { return webhookErrorsTotal }

func GetWebhookDurationSeconds() *prometheus.HistogramVec { return webhookDurationSeconds }

func GetProviderCallsTotal() *prometheus.CounterVec { return providerCallsTotal }
