package validation

import (
	"fmt"
	"strings"
)

// maxTopicNameLength bounds topic names so the derived directory name
// stays well under filesystem limits.
const maxTopicNameLength = 200

// TopicNameError indicates an invalid topic name
type TopicNameError struct {
	Name   string
	Reason string
}

func (e TopicNameError) Error() string {
	return fmt.Sprintf("invalid topic name '%s': %s", e.Name, e.Reason)
}

// ValidateTopicName validates a topic name. Topic names become part of
// on-disk directory names, so the character set is restricted.
func ValidateTopicName(name string) error {
	if strings.TrimSpace(name) == "" {
		return TopicNameError{Name: name, Reason: "topic name cannot be empty"}
	}

	if len(name) > maxTopicNameLength {
		return TopicNameError{
			Name:   name,
			Reason: fmt.Sprintf("topic name exceeds %d characters", maxTopicNameLength),
		}
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return TopicNameError{
				Name:   name,
				Reason: fmt.Sprintf("invalid character %q (allowed: letters, digits, '.', '_', '-')", c),
			}
		}
	}

	return nil
}
