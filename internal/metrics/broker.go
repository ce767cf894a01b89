package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BrokerMetrics tracks produce/consume traffic and per-partition log state
type BrokerMetrics struct {
	nextOffset        *prometheus.GaugeVec
	segments          *prometheus.GaugeVec
	messagesTotal     *prometheus.CounterVec
	messagesReadTotal *prometheus.CounterVec
	produceDuration   *prometheus.HistogramVec
	consumeDuration   *prometheus.HistogramVec
	bytesInTotal      *prometheus.CounterVec
	bytesOutTotal     *prometheus.CounterVec
}

// NewBrokerMetrics initializes broker metrics with the collector
func NewBrokerMetrics(collector *Collector) *BrokerMetrics {
	return &BrokerMetrics{
		nextOffset: collector.RegisterGauge(
			MetricBrokerNextOffset,
			"Next offset to be assigned per partition",
			[]string{LabelTopic, LabelPartition},
		),
		segments: collector.RegisterGauge(
			MetricBrokerSegments,
			"Number of log segments per partition",
			[]string{LabelTopic, LabelPartition},
		),
		messagesTotal: collector.RegisterCounter(
			MetricBrokerMessagesTotal,
			"Total number of messages produced",
			[]string{LabelTopic},
		),
		messagesReadTotal: collector.RegisterCounter(
			MetricBrokerMessagesReadTotal,
			"Total number of messages consumed",
			[]string{LabelTopic},
		),
		produceDuration: collector.RegisterHistogram(
			MetricBrokerProduceDuration,
			"Duration of produce operations in seconds",
			[]string{LabelTopic},
			prometheus.DefBuckets,
		),
		consumeDuration: collector.RegisterHistogram(
			MetricBrokerConsumeDuration,
			"Duration of consume operations in seconds",
			[]string{LabelTopic},
			prometheus.DefBuckets,
		),
		bytesInTotal: collector.RegisterCounter(
			MetricBrokerBytesInTotal,
			"Total payload bytes produced",
			[]string{LabelTopic},
		),
		bytesOutTotal: collector.RegisterCounter(
			MetricBrokerBytesOutTotal,
			"Total payload bytes consumed",
			[]string{LabelTopic},
		),
	}
}

// RecordProduce records a produce operation
func (m *BrokerMetrics) RecordProduce(topic string, bytes int, duration time.Duration) {
	if m == nil {
		return
	}
	m.produceDuration.WithLabelValues(topic).Observe(duration.Seconds())
	m.messagesTotal.WithLabelValues(topic).Inc()
	m.bytesInTotal.WithLabelValues(topic).Add(float64(bytes))
}

// RecordConsume records a consume operation
func (m *BrokerMetrics) RecordConsume(topic string, bytes int, duration time.Duration) {
	if m == nil {
		return
	}
	m.consumeDuration.WithLabelValues(topic).Observe(duration.Seconds())
	m.messagesReadTotal.WithLabelValues(topic).Inc()
	m.bytesOutTotal.WithLabelValues(topic).Add(float64(bytes))
}

// SetPartitionState updates the per-partition gauges
func (m *BrokerMetrics) SetPartitionState(topic string, partition int, nextOffset int64, segmentCount int) {
	if m == nil {
		return
	}
	partitionStr := formatPartition(partition)
	m.nextOffset.WithLabelValues(topic, partitionStr).Set(float64(nextOffset))
	m.segments.WithLabelValues(topic, partitionStr).Set(float64(segmentCount))
}

// formatPartition formats partition number as string
func formatPartition(partition int) string {
	return fmt.Sprintf("%d", partition)
}
