package metrics

// Metric name constants following Prometheus naming conventions
// Format: streamlog_{component}_{metric}_{unit}

// Broker metrics
const (
	MetricBrokerNextOffset        = "streamlog_broker_next_offset"
	MetricBrokerSegments          = "streamlog_broker_segments"
	MetricBrokerMessagesTotal     = "streamlog_broker_messages_total"
	MetricBrokerProduceDuration   = "streamlog_broker_produce_duration_seconds"
	MetricBrokerConsumeDuration   = "streamlog_broker_consume_duration_seconds"
	MetricBrokerBytesInTotal      = "streamlog_broker_bytes_in_total"
	MetricBrokerBytesOutTotal     = "streamlog_broker_bytes_out_total"
	MetricBrokerMessagesReadTotal = "streamlog_broker_messages_read_total"
)

// Node-level metrics
const (
	MetricTopicsTotal              = "streamlog_topics_total"
	MetricAPIRequestsTotal         = "streamlog_api_requests_total"
	MetricAPIRequestDuration       = "streamlog_api_request_duration_seconds"
	MetricSchemaRegistrationsTotal = "streamlog_schema_registrations_total"
)

// Label name constants
const (
	LabelTopic     = "topic"
	LabelPartition = "partition"
	LabelStatus    = "status"
	LabelMethod    = "method"
	LabelEndpoint  = "endpoint"
	LabelComponent = "component"
)
