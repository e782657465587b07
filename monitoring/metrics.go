package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created per payment method and outcome",
		},
		[]string{"payment_method", "status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Gateway webhook deliveries per action and outcome",
		},
		[]string{"action", "outcome"},
	)

	gatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of payment gateway calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"operation"},
	)

	mailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Transactional mails per type and outcome",
		},
		[]string{"type", "status"},
	)
)

// TrackOrderCreated counts an order submission outcome.
func TrackOrderCreated(paymentMethod, status string) {
	ordersCreated.WithLabelValues(paymentMethod, status).Inc()
}

// TrackWebhookEvent counts a webhook delivery outcome.
func TrackWebhookEvent(action, outcome string) {
	if action == "" {
		action = "unknown"
	}
	webhookEvents.WithLabelValues(action, outcome).Inc()
}

// TrackGatewayCall records the duration of one gateway round trip.
func TrackGatewayCall(operation string, duration time.Duration) {
	gatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TrackMail counts a transactional mail send outcome.
func TrackMail(mailType, status string) {
	mailsSent.WithLabelValues(mailType, status).Inc()
}
