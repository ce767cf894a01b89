package metastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// topicKeyPrefix namespaces topic records inside the pebble keyspace
const topicKeyPrefix = "topic/"

// Store persists topic metadata in a pebble database so the broker remembers
// its topics across restarts.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the metadata database under dir.
func Open(dir string) (*Store, error) {
	opts := &pebble.Options{}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	log.Debug().Str("dir", dir).Msg("Metadata store opened")

	return &Store{db: db}, nil
}

// CreateTopic stores a new topic record. It fails with TopicExistsError if
// the topic is already registered.
func (s *Store) CreateTopic(config *TopicConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	key := topicKey(config.Name)

	_, closer, err := s.db.Get(key)
	if err == nil {
		//nolint:errcheck // Ignore close error
		_ = closer.Close()
		return TopicExistsError{Name: config.Name}
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("failed to check topic existence: %w", err)
	}

	now := time.Now()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}
	config.UpdatedAt = now

	if err := s.put(key, config); err != nil {
		return fmt.Errorf("failed to persist topic: %w", err)
	}

	log.Info().Str("topic", config.Name).Msg("Topic registered")

	return nil
}

// GetTopic retrieves a topic record by name.
func (s *Store) GetTopic(name string) (*TopicConfig, error) {
	value, closer, err := s.db.Get(topicKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, TopicNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	defer closer.Close()

	config := &TopicConfig{}
	if err := json.Unmarshal(value, config); err != nil {
		return nil, fmt.Errorf("failed to decode topic record: %w", err)
	}

	return config, nil
}

// UpdateTopic applies updater to an existing topic record and persists the
// result.
func (s *Store) UpdateTopic(name string, updater func(*TopicConfig) error) error {
	config, err := s.GetTopic(name)
	if err != nil {
		return err
	}

	if err := updater(config); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	config.UpdatedAt = time.Now()

	if err := s.put(topicKey(name), config); err != nil {
		return fmt.Errorf("failed to persist update: %w", err)
	}

	log.Debug().Str("topic", name).Msg("Topic updated")

	return nil
}

// DeleteTopic removes a topic record.
func (s *Store) DeleteTopic(name string) error {
	if _, err := s.GetTopic(name); err != nil {
		return err
	}

	wo := &pebble.WriteOptions{}
	if err := s.db.Delete(topicKey(name), wo); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	log.Info().Str("topic", name).Msg("Topic record deleted")

	return nil
}

// ListTopics returns the names of all registered topics, sorted.
func (s *Store) ListTopics() ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(topicKeyPrefix),
		// '0' is the byte after '/', bounding the prefix scan
		UpperBound: []byte("topic0"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var names []string
	for iter.First(); iter.Valid(); iter.Next() {
		names = append(names, string(iter.Key()[len(topicKeyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key []byte, config *TopicConfig) error {
	value, err := json.Marshal(config)
	if err != nil {
		return err
	}
	wo := &pebble.WriteOptions{}
	return s.db.Set(key, value, wo)
}

func topicKey(name string) []byte {
	return []byte(topicKeyPrefix + name)
}
