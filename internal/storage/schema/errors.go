package schema

import "fmt"

// SchemaNotFoundError indicates a topic has no registered schema
type SchemaNotFoundError struct {
	Topic string
}

func (e SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no schema registered for topic: %s", e.Topic)
}

// InvalidSchemaError indicates a schema definition that does not compile
type InvalidSchemaError struct {
	Topic  string
	Reason string
}

func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema for topic %s: %s", e.Topic, e.Reason)
}

// SchemaValidationError indicates a payload that failed schema validation
type SchemaValidationError struct {
	Topic  string
	Reason string
}

func (e SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed for topic %s: %s", e.Topic, e.Reason)
}
