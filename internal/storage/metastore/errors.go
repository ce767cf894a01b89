package metastore

import "fmt"

// TopicNotFoundError indicates a topic record was not found
type TopicNotFoundError struct {
	Name string
}

func (e TopicNotFoundError) Error() string {
	return fmt.Sprintf("topic not found: %s", e.Name)
}

// TopicExistsError indicates a topic record already exists
type TopicExistsError struct {
	Name string
}

func (e TopicExistsError) Error() string {
	return fmt.Sprintf("topic already exists: %s", e.Name)
}

// InvalidConfigError indicates an invalid topic configuration
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field '%s': %s", e.Field, e.Reason)
}
