package schema

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/streamlog/broker/internal/storage/metastore"
)

// Registry manages the optional payload schema attached to each topic. The
// schema itself is persisted as part of the topic record in the metastore; a
// shared Validator caches compiled forms.
type Registry struct {
	metaStore *metastore.Store
	validator *Validator
}

// NewRegistry creates a new schema registry.
func NewRegistry(metaStore *metastore.Store) *Registry {
	return &Registry{
		metaStore: metaStore,
		validator: NewValidator(),
	}
}

// Register attaches a JSON Schema to a topic. The definition is compiled
// before it is persisted so that a broken schema can never block produces.
// The topic is created in the metastore if it does not exist yet.
func (r *Registry) Register(topic string, definition []byte) error {
	if len(definition) == 0 {
		return InvalidSchemaError{Topic: topic, Reason: "definition cannot be empty"}
	}

	if _, err := r.validator.Compile(definition); err != nil {
		var invalid InvalidSchemaError
		if errors.As(err, &invalid) {
			invalid.Topic = topic
			return invalid
		}
		return err
	}

	ref := &metastore.SchemaRef{Type: "jsonschema", Definition: definition}

	err := r.metaStore.UpdateTopic(topic, func(config *metastore.TopicConfig) error {
		config.Schema = ref
		return nil
	})
	if err != nil {
		var notFound metastore.TopicNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to store schema: %w", err)
		}
		createErr := r.metaStore.CreateTopic(&metastore.TopicConfig{Name: topic, Schema: ref})
		if createErr != nil {
			return fmt.Errorf("failed to store schema: %w", createErr)
		}
	}

	log.Info().Str("topic", topic).Msg("Schema registered")

	return nil
}

// Get returns the raw schema definition registered for a topic.
func (r *Registry) Get(topic string) ([]byte, error) {
	config, err := r.metaStore.GetTopic(topic)
	if err != nil {
		var notFound metastore.TopicNotFoundError
		if errors.As(err, &notFound) {
			return nil, SchemaNotFoundError{Topic: topic}
		}
		return nil, err
	}
	if config.Schema == nil || len(config.Schema.Definition) == 0 {
		return nil, SchemaNotFoundError{Topic: topic}
	}
	return config.Schema.Definition, nil
}

// ValidatePayload checks a payload against the topic's schema. Topics without
// a registered schema accept any payload.
func (r *Registry) ValidatePayload(topic string, payload []byte) error {
	definition, err := r.Get(topic)
	if err != nil {
		var notFound SchemaNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	if err := r.validator.Validate(payload, definition); err != nil {
		var violation SchemaValidationError
		if errors.As(err, &violation) {
			violation.Topic = topic
			return violation
		}
		return err
	}

	return nil
}
