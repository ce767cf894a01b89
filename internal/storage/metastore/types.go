package metastore

import (
	"time"
)

// SchemaRef holds an optional payload schema attached to a topic.
type SchemaRef struct {
	// Type is the schema type (currently always "jsonschema")
	Type string `json:"type"`
	// Definition is the raw schema definition (JSON)
	Definition []byte `json:"definition"`
}

// TopicConfig represents the durable configuration of a topic.
type TopicConfig struct {
	// Name is the topic name
	Name string `json:"name"`
	// Partitions is the number of partitions
	Partitions int `json:"partitions"`
	// Schema references an optional payload schema
	Schema *SchemaRef `json:"schema,omitempty"`
	// CreatedAt is when the topic was first created
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the topic was last updated
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the topic configuration.
func (tc *TopicConfig) Validate() error {
	if tc.Name == "" {
		return InvalidConfigError{Field: "name", Reason: "cannot be empty"}
	}
	if tc.Partitions < 0 {
		return InvalidConfigError{Field: "partitions", Reason: "cannot be negative"}
	}
	if tc.Partitions == 0 {
		tc.Partitions = 1
	}
	return nil
}
