package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamlog/broker/internal/logger"
	"github.com/streamlog/broker/internal/metrics"
	logpkg "github.com/streamlog/broker/internal/storage/log"
	"github.com/streamlog/broker/internal/storage/metastore"
	"github.com/streamlog/broker/internal/storage/schema"
)

// Registry maps topic-partition keys to open partitions and routes every
// broker operation to the right one. Partitions are created lazily on first
// produce and reopened lazily for topics the metastore remembers. The
// registry object replaces any process-wide global state: it is constructed
// explicitly, injected into the API layer, and closed once on shutdown.
type Registry struct {
	mu         sync.RWMutex
	partitions map[string]*logpkg.Partition
	closed     bool

	paths            *StoragePaths
	segmentSizeLimit int64
	metaStore        *metastore.Store
	schemas          *schema.Registry
	metrics          *metrics.BrokerMetrics
	log              zerolog.Logger
}

// NewRegistry creates a topic registry. schemas and brokerMetrics may be nil
// to disable payload validation and instrumentation.
func NewRegistry(paths *StoragePaths, metaStore *metastore.Store, schemas *schema.Registry, brokerMetrics *metrics.BrokerMetrics, segmentSizeLimit int64) *Registry {
	if segmentSizeLimit <= 0 {
		segmentSizeLimit = logpkg.DefaultSegmentSizeLimit
	}
	return &Registry{
		partitions:       make(map[string]*logpkg.Partition),
		paths:            paths,
		segmentSizeLimit: segmentSizeLimit,
		metaStore:        metaStore,
		schemas:          schemas,
		metrics:          brokerMetrics,
		log:              logger.WithComponent("storage.registry"),
	}
}

// partitionKey builds the registry key for a topic-partition.
func partitionKey(topic string, partitionID int) string {
	return fmt.Sprintf("%s-%d", topic, partitionID)
}

// Produce appends a payload to partition 0 of the topic, creating the
// partition on first reference, and returns the assigned offset.
func (r *Registry) Produce(topic string, payload []byte) (int64, error) {
	if r.schemas != nil {
		if err := r.schemas.ValidatePayload(topic, payload); err != nil {
			return 0, err
		}
	}

	p, err := r.getOrCreatePartition(topic, 0)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	offset, err := p.Produce(payload)
	if err != nil {
		return 0, err
	}

	r.metrics.RecordProduce(topic, len(payload), time.Since(start))
	r.metrics.SetPartitionState(topic, 0, p.NextOffset(), p.SegmentCount())

	return offset, nil
}

// Consume returns the payload stored at offset in partition 0 of the topic.
func (r *Registry) Consume(topic string, offset int64) ([]byte, error) {
	p, err := r.lookupPartition(topic, 0)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	payload, err := p.Consume(offset)
	if err != nil {
		return nil, err
	}

	r.metrics.RecordConsume(topic, len(payload), time.Since(start))

	return payload, nil
}

// SegmentInfo returns a snapshot of partition 0 of the topic.
func (r *Registry) SegmentInfo(topic string) (logpkg.PartitionInfo, error) {
	p, err := r.lookupPartition(topic, 0)
	if err != nil {
		return logpkg.PartitionInfo{}, err
	}
	return p.Info(), nil
}

// ListTopics returns the names of every topic the broker knows about,
// including topics from previous runs that have not been touched yet.
func (r *Registry) ListTopics() ([]string, error) {
	return r.metaStore.ListTopics()
}

// CloseTopic closes every live partition of the topic and forgets it. Data
// files are left on disk.
func (r *Registry) CloseTopic(topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	closedAny := false
	for key, p := range r.partitions {
		if !strings.HasPrefix(key, topic+"-") {
			continue
		}
		if err := p.Close(); err != nil {
			r.log.Error().Err(err).Str("key", key).Msg("Failed to close partition")
			lastErr = err
		}
		delete(r.partitions, key)
		closedAny = true
	}

	if err := r.metaStore.DeleteTopic(topic); err != nil {
		var notFound metastore.TopicNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		if !closedAny {
			return TopicNotFoundError{Topic: topic}
		}
	}

	r.log.Info().Str("topic", topic).Msg("Topic closed")

	return lastErr
}

// Stats returns the number of distinct live topics and live partitions.
func (r *Registry) Stats() (topics int, partitions int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.partitions {
		seen[p.Topic()] = struct{}{}
	}
	return len(seen), len(r.partitions)
}

// Ready reports whether the registry accepts operations.
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.closed
}

// Close closes every live partition in deterministic order. The metastore is
// owned by the caller and closed separately.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	keys := make([]string, 0, len(r.partitions))
	for key := range r.partitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var lastErr error
	for _, key := range keys {
		if err := r.partitions[key].Close(); err != nil {
			r.log.Error().Err(err).Str("key", key).Msg("Failed to close partition")
			lastErr = err
		}
	}

	r.partitions = make(map[string]*logpkg.Partition)
	r.closed = true
	r.log.Info().Int("partitions", len(keys)).Msg("Registry closed")

	return lastErr
}

// getOrCreatePartition returns the live partition for the key, opening it
// (and registering the topic in the metastore) if needed.
func (r *Registry) getOrCreatePartition(topic string, partitionID int) (*logpkg.Partition, error) {
	key := partitionKey(topic, partitionID)

	r.mu.RLock()
	if p, exists := r.partitions[key]; exists {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, exists := r.partitions[key]; exists {
		return p, nil
	}

	p, err := logpkg.OpenPartition(topic, partitionID, r.paths.TopicsDir, r.segmentSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition %s: %w", key, err)
	}

	if err := r.metaStore.CreateTopic(&metastore.TopicConfig{Name: topic}); err != nil {
		var exists metastore.TopicExistsError
		if !errors.As(err, &exists) {
			_ = p.Close()
			return nil, err
		}
	}

	r.partitions[key] = p
	return p, nil
}

// lookupPartition returns the live partition for the key. A topic known to
// the metastore but not yet live is reopened lazily; an unknown topic fails
// with TopicNotFoundError.
func (r *Registry) lookupPartition(topic string, partitionID int) (*logpkg.Partition, error) {
	key := partitionKey(topic, partitionID)

	r.mu.RLock()
	if p, exists := r.partitions[key]; exists {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	if _, err := r.metaStore.GetTopic(topic); err != nil {
		var notFound metastore.TopicNotFoundError
		if errors.As(err, &notFound) {
			return nil, TopicNotFoundError{Topic: topic}
		}
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, exists := r.partitions[key]; exists {
		return p, nil
	}

	p, err := logpkg.OpenPartition(topic, partitionID, r.paths.TopicsDir, r.segmentSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen partition %s: %w", key, err)
	}
	r.partitions[key] = p

	return p, nil
}
