package log

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultSegmentSizeLimit is the default segment rolling threshold (1MB)
const DefaultSegmentSizeLimit = 1 * 1024 * 1024

// Partition owns the ordered segment chain for one topic-partition: zero or
// more closed (read-only) segments plus exactly one active segment, totally
// ordered and contiguous by offset. Offsets are assigned 0, 1, 2, ... in
// write order with no gaps.
//
// The partition is exposed to concurrent callers through the API layer, so a
// mutex serializes every operation; segments themselves rely on this.
type Partition struct {
	topic            string
	partitionID      int
	dir              string
	segmentSizeLimit int64

	mu     sync.Mutex
	closed []*Segment
	active *Segment
	// nextOffset is the next offset to be assigned across the whole partition
	nextOffset int64
}

// OpenPartition opens the partition directory `{topic}-{partitionID}` under
// dataDir, reconstructs the segment chain from the log files found there, and
// makes the highest-base segment active. With no prior data a fresh segment
// with base offset 0 is created.
func OpenPartition(topic string, partitionID int, dataDir string, segmentSizeLimit int64) (*Partition, error) {
	if segmentSizeLimit <= 0 {
		segmentSizeLimit = DefaultSegmentSizeLimit
	}

	p := &Partition{
		topic:            topic,
		partitionID:      partitionID,
		dir:              filepath.Join(dataDir, fmt.Sprintf("%s-%d", topic, partitionID)),
		segmentSizeLimit: segmentSizeLimit,
	}

	if err := p.loadSegments(); err != nil {
		return nil, err
	}

	if p.active == nil {
		seg, err := OpenSegment(0, p.dir)
		if err != nil {
			return nil, err
		}
		p.active = seg
		p.nextOffset = 0
	}

	log.Debug().
		Str("topic", topic).
		Int("partition", partitionID).
		Int("segments", len(p.closed)+1).
		Int64("next_offset", p.nextOffset).
		Msg("Partition opened")

	return p, nil
}

// loadSegments discovers existing segments by listing log files, sorted
// ascending by the base offset encoded in each filename. Each segment
// performs its own recovery scan when opened. All but the last become closed
// segments; the last becomes active.
func (p *Partition) loadSegments() error {
	files, err := filepath.Glob(filepath.Join(p.dir, "*.log"))
	if err != nil {
		return err
	}

	var baseOffsets []int64
	for _, file := range files {
		stem := strings.TrimSuffix(filepath.Base(file), ".log")
		base, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			continue
		}
		baseOffsets = append(baseOffsets, base)
	}
	if len(baseOffsets) == 0 {
		return nil
	}

	sort.Slice(baseOffsets, func(i, j int) bool { return baseOffsets[i] < baseOffsets[j] })

	segments := make([]*Segment, 0, len(baseOffsets))
	for _, base := range baseOffsets {
		seg, err := OpenSegment(base, p.dir)
		if err != nil {
			for _, opened := range segments {
				//nolint:errcheck // Ignore close errors during failed open
				_ = opened.Close()
			}
			return fmt.Errorf("failed to open segment %d: %w", base, err)
		}
		segments = append(segments, seg)
	}

	p.closed = segments[:len(segments)-1]
	p.active = segments[len(segments)-1]
	p.nextOffset = p.active.CurrentOffset()

	return nil
}

// Produce appends a payload to the partition and returns its assigned offset.
// The rolling check runs strictly before the write: if the active segment's
// physical log file size has reached the limit, the active segment is closed
// to further writes and a new one is created at the partition's next offset.
func (p *Partition) Produce(payload []byte) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size, err := p.active.Size()
	if err != nil {
		return 0, err
	}
	if size >= p.segmentSizeLimit {
		if err := p.roll(); err != nil {
			return 0, err
		}
	}

	offset, err := p.active.Append(payload)
	if err != nil {
		return 0, err
	}
	p.nextOffset = offset + 1

	return offset, nil
}

// roll retires the active segment to the closed list and creates a new active
// segment at nextOffset. If segment creation fails, partition state is not
// rolled back; the failure propagates to the caller.
func (p *Partition) roll() error {
	p.closed = append(p.closed, p.active)

	seg, err := OpenSegment(p.nextOffset, p.dir)
	if err != nil {
		return fmt.Errorf("failed to roll segment at offset %d: %w", p.nextOffset, err)
	}

	log.Info().
		Str("topic", p.topic).
		Int("partition", p.partitionID).
		Int64("rolled_base", p.active.BaseOffset()).
		Int64("new_base", p.nextOffset).
		Msg("Segment rolled")

	p.active = seg
	return nil
}

// Consume returns the payload stored at offset. Closed segments are checked
// in ascending order, then the active segment; the read is delegated to the
// first one whose range claims the offset.
func (p *Partition) Consume(offset int64) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if offset < 0 || offset >= p.nextOffset {
		return nil, OffsetOutOfRangeError{Offset: offset, Low: 0, High: p.nextOffset}
	}

	for _, seg := range p.closed {
		if seg.Contains(offset) {
			return seg.Read(offset)
		}
	}
	if p.active.Contains(offset) {
		return p.active.Read(offset)
	}

	// The offset is inside [0, nextOffset) but no segment claims it: the
	// contiguity invariant is broken. Report, never swallow.
	return nil, OffsetNotFoundError{Offset: offset}
}

// Info returns a snapshot of the partition's segment chain. Pure read, no
// side effects.
func (p *Partition) Info() PartitionInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := PartitionInfo{
		Topic:         p.topic,
		PartitionID:   p.partitionID,
		TotalSegments: len(p.closed) + 1,
		NextOffset:    p.nextOffset,
		Segments:      make([]SegmentInfo, 0, len(p.closed)+1),
	}

	for _, seg := range p.closed {
		info.Segments = append(info.Segments, segmentInfo(seg, SegmentStatusClosed))
	}
	info.Segments = append(info.Segments, segmentInfo(p.active, SegmentStatusActive))

	return info
}

func segmentInfo(seg *Segment, status SegmentStatus) SegmentInfo {
	size, err := seg.Size()
	if err != nil {
		size = 0
	}
	return SegmentInfo{
		BaseOffset:    seg.BaseOffset(),
		CurrentOffset: seg.CurrentOffset(),
		SizeBytes:     size,
		Status:        status,
	}
}

// SegmentCount returns the number of segments in the chain, active included.
func (p *Partition) SegmentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.closed) + 1
}

// NextOffset returns the next offset the partition will assign.
func (p *Partition) NextOffset() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextOffset
}

// Topic returns the partition's topic name.
func (p *Partition) Topic() string {
	return p.topic
}

// ID returns the partition's numeric ID within its topic.
func (p *Partition) ID() int {
	return p.partitionID
}

// Close releases every owned segment, closed list first, then the active
// segment. The partition must not be used afterward.
func (p *Partition) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for _, seg := range p.closed {
		if err := seg.Close(); err != nil {
			log.Error().Err(err).Int64("base_offset", seg.BaseOffset()).Msg("Failed to close segment")
			lastErr = err
		}
	}
	if p.active != nil {
		if err := p.active.Close(); err != nil {
			log.Error().Err(err).Int64("base_offset", p.active.BaseOffset()).Msg("Failed to close segment")
			lastErr = err
		}
	}

	log.Debug().
		Str("topic", p.topic).
		Int("partition", p.partitionID).
		Msg("Partition closed")

	return lastErr
}
