package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NodeMetrics tracks node-level metrics
type NodeMetrics struct {
	topicsTotal              prometheus.Gauge
	apiRequestsTotal         *prometheus.CounterVec
	apiRequestDuration       *prometheus.HistogramVec
	schemaRegistrationsTotal *prometheus.CounterVec
}

// NewNodeMetrics initializes node-level metrics with the collector
func NewNodeMetrics(collector *Collector) *NodeMetrics {
	return &NodeMetrics{
		topicsTotal: collector.RegisterGauge(
			MetricTopicsTotal,
			"Total number of topics",
			nil,
		).WithLabelValues(),
		apiRequestsTotal: collector.RegisterCounter(
			MetricAPIRequestsTotal,
			"Total HTTP requests by method, endpoint, and status",
			[]string{LabelMethod, LabelEndpoint, LabelStatus},
		),
		apiRequestDuration: collector.RegisterHistogram(
			MetricAPIRequestDuration,
			"API request latency in seconds",
			[]string{LabelMethod, LabelEndpoint},
			prometheus.DefBuckets,
		),
		schemaRegistrationsTotal: collector.RegisterCounter(
			MetricSchemaRegistrationsTotal,
			"Total number of schema registrations",
			[]string{LabelTopic},
		),
	}
}

// RecordAPIRequest records an API request
func (m *NodeMetrics) RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.apiRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// UpdateTopicCount updates the topics gauge
func (m *NodeMetrics) UpdateTopicCount(count int) {
	if m == nil {
		return
	}
	m.topicsTotal.Set(float64(count))
}

// RecordSchemaRegistration increments the schema registration counter
func (m *NodeMetrics) RecordSchemaRegistration(topic string) {
	if m == nil {
		return
	}
	m.schemaRegistrationsTotal.WithLabelValues(topic).Inc()
}
