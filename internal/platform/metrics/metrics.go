package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AuditAppends      prometheus.Counter
	AuditAppendDrops  prometheus.Counter
	Dispatches        *prometheus.CounterVec
	DeliveryOutcomes  *prometheus.CounterVec
	DispatchDuration  prometheus.Histogram
	FeedSubscriptions prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuditAppends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admin_audit_appends_total",
			Help: "Total number of audit records appended",
		}),
		AuditAppendDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admin_audit_append_drops_total",
			Help: "Total number of audit records dropped because the store was unavailable",
		}),
		Dispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_notification_dispatches_total",
			Help: "Total number of notification dispatch attempts by outcome",
		}, []string{"outcome"}),
		DeliveryOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_notification_deliveries_total",
			Help: "Total per-recipient delivery outcomes reported by the gateway",
		}, []string{"result"}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "admin_notification_dispatch_duration_seconds",
			Help:    "Latency of delivery gateway calls",
			Buckets: prometheus.DefBuckets,
		}),
		FeedSubscriptions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "admin_live_feed_subscriptions",
			Help: "Number of active live feed subscriptions",
		}),
	}
}
