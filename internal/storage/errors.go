package storage

import "fmt"

// TopicNotFoundError indicates an operation on a topic the broker does not
// know about.
type TopicNotFoundError struct {
	Topic string
}

func (e TopicNotFoundError) Error() string {
	return fmt.Sprintf("topic not found: %s", e.Topic)
}
