package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/streamlog/broker/internal/api/validation"
	"github.com/streamlog/broker/internal/metrics"
	"github.com/streamlog/broker/internal/storage"
)

// BrokerHandlers provides HTTP handlers for produce/consume operations
type BrokerHandlers struct {
	registry    *storage.Registry
	nodeMetrics *metrics.NodeMetrics
}

// NewBrokerHandlers creates new broker handlers. nodeMetrics may be nil.
func NewBrokerHandlers(registry *storage.Registry, nodeMetrics *metrics.NodeMetrics) *BrokerHandlers {
	return &BrokerHandlers{
		registry:    registry,
		nodeMetrics: nodeMetrics,
	}
}

// ProduceRequest represents a request to append a message
type ProduceRequest struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// ProduceResponse represents a response to appending a message
type ProduceResponse struct {
	Status    string `json:"status"`
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
	Offset    int64  `json:"offset"`
}

// Produce handles POST /produce
func (h *BrokerHandlers) Produce(w http.ResponseWriter, r *http.Request) {
	var req ProduceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateTopicName(req.Topic); err != nil {
		writeError(w, err)
		return
	}

	offset, err := h.registry.Produce(req.Topic, []byte(req.Message))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProduceResponse{
		Status:    "success",
		Topic:     req.Topic,
		Partition: 0,
		Offset:    offset,
	})
}

// ConsumeResponse represents a response to reading a message
type ConsumeResponse struct {
	Status    string `json:"status"`
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
	Offset    int64  `json:"offset"`
	Message   string `json:"message"`
}

// Consume handles GET /consume?topic={topic}&offset={offset}&partition={partition}
func (h *BrokerHandlers) Consume(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if err := validation.ValidateTopicName(topic); err != nil {
		writeError(w, err)
		return
	}

	// Single-partition topics for now
	if p := r.URL.Query().Get("partition"); p != "" && p != "0" {
		http.Error(w, "only partition 0 is supported", http.StatusBadRequest)
		return
	}

	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		http.Error(w, "offset parameter is required", http.StatusBadRequest)
		return
	}
	offset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid offset parameter", http.StatusBadRequest)
		return
	}

	payload, err := h.registry.Consume(topic, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ConsumeResponse{
		Status:    "success",
		Topic:     topic,
		Partition: 0,
		Offset:    offset,
		Message:   string(payload),
	})
}

// ListTopicsResponse represents a response to listing topics
type ListTopicsResponse struct {
	Status string   `json:"status"`
	Topics []string `json:"topics"`
	Count  int      `json:"count"`
}

// ListTopics handles GET /topics
func (h *BrokerHandlers) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.registry.ListTopics()
	if err != nil {
		writeError(w, err)
		return
	}

	h.nodeMetrics.UpdateTopicCount(len(topics))

	writeJSON(w, http.StatusOK, ListTopicsResponse{
		Status: "success",
		Topics: topics,
		Count:  len(topics),
	})
}

// TopicInfoResponse represents a response to inspecting a topic's log
type TopicInfoResponse struct {
	Status string     `json:"status"`
	Topic  string     `json:"topic"`
	Info   topicStats `json:"info"`
}

type topicStats struct {
	Topic         string        `json:"topic"`
	PartitionID   int           `json:"partition_id"`
	TotalSegments int           `json:"total_segments"`
	NextOffset    int64         `json:"next_offset"`
	Segments      []segmentView `json:"segments"`
}

type segmentView struct {
	BaseOffset    int64  `json:"base_offset"`
	CurrentOffset int64  `json:"current_offset"`
	SizeBytes     int64  `json:"size_bytes"`
	Status        string `json:"status"`
}

// TopicInfo handles GET /topics/{topic}/info
func (h *BrokerHandlers) TopicInfo(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if err := validation.ValidateTopicName(topic); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.registry.SegmentInfo(topic)
	if err != nil {
		writeError(w, err)
		return
	}

	stats := topicStats{
		Topic:         info.Topic,
		PartitionID:   info.PartitionID,
		TotalSegments: info.TotalSegments,
		NextOffset:    info.NextOffset,
		Segments:      make([]segmentView, 0, len(info.Segments)),
	}
	for _, seg := range info.Segments {
		stats.Segments = append(stats.Segments, segmentView{
			BaseOffset:    seg.BaseOffset,
			CurrentOffset: seg.CurrentOffset,
			SizeBytes:     seg.SizeBytes,
			Status:        string(seg.Status),
		})
	}

	writeJSON(w, http.StatusOK, TopicInfoResponse{
		Status: "success",
		Topic:  topic,
		Info:   stats,
	})
}

// DeleteTopicResponse represents a response to closing a topic
type DeleteTopicResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeleteTopic handles DELETE /topics/{topic}
func (h *BrokerHandlers) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if err := validation.ValidateTopicName(topic); err != nil {
		writeError(w, err)
		return
	}

	if err := h.registry.CloseTopic(topic); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteTopicResponse{
		Status:  "success",
		Message: "topic closed; data files retained on disk",
	})
}
