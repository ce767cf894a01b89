package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/streamlog/broker/internal/api/validation"
	"github.com/streamlog/broker/internal/metrics"
	"github.com/streamlog/broker/internal/storage/schema"
)

// SchemaHandlers provides HTTP handlers for per-topic schema operations
type SchemaHandlers struct {
	schemas     *schema.Registry
	nodeMetrics *metrics.NodeMetrics
}

// NewSchemaHandlers creates new schema handlers. nodeMetrics may be nil.
func NewSchemaHandlers(schemas *schema.Registry, nodeMetrics *metrics.NodeMetrics) *SchemaHandlers {
	return &SchemaHandlers{
		schemas:     schemas,
		nodeMetrics: nodeMetrics,
	}
}

// RegisterSchemaRequest represents a request to attach a schema to a topic
type RegisterSchemaRequest struct {
	Definition json.RawMessage `json:"definition"`
}

// RegisterSchema handles PUT /topics/{topic}/schema
func (h *SchemaHandlers) RegisterSchema(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if err := validation.ValidateTopicName(topic); err != nil {
		writeError(w, err)
		return
	}

	var req RegisterSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Definition) == 0 {
		http.Error(w, "definition is required", http.StatusBadRequest)
		return
	}

	if err := h.schemas.Register(topic, []byte(req.Definition)); err != nil {
		writeError(w, err)
		return
	}

	h.nodeMetrics.RecordSchemaRegistration(topic)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "schema registered successfully",
	})
}

// GetSchema handles GET /topics/{topic}/schema
func (h *SchemaHandlers) GetSchema(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if err := validation.ValidateTopicName(topic); err != nil {
		writeError(w, err)
		return
	}

	definition, err := h.schemas.Get(topic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"topic":       topic,
		"schema_type": "jsonschema",
		"definition":  json.RawMessage(definition),
	})
}
