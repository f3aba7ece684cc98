// Package metrics guarda os contadores de domínio. Fica fora do pacote HTTP
// para que use cases e workers de fila registrem sem depender de middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_stage_transitions_total",
			Help: "Total number of committed lead stage transitions",
		},
		[]string{"from", "to"},
	)

	activitiesLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_activities_logged_total",
			Help: "Total number of activities appended to the log",
		},
		[]string{"type"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_webhook_events_total",
			Help: "Total number of inbound webhook events by outcome",
		},
		[]string{"source", "outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordStageTransition(from, to string) {
	stageTransitions.WithLabelValues(from, to).Inc()
}

func RecordActivity(activityType string) {
	activitiesLogged.WithLabelValues(activityType).Inc()
}

func RecordWebhookEvent(source, outcome string) {
	webhookEvents.WithLabelValues(source, outcome).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
