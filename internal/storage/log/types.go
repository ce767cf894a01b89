package log

// SegmentStatus is the lifecycle state of a segment within its partition.
type SegmentStatus string

const (
	// SegmentStatusClosed marks a rolled segment that accepts no more writes
	SegmentStatusClosed SegmentStatus = "closed"
	// SegmentStatusActive marks the one segment currently accepting writes
	SegmentStatusActive SegmentStatus = "active"
)

// SegmentInfo describes one segment within a partition snapshot.
type SegmentInfo struct {
	// BaseOffset is the offset of the segment's first message
	BaseOffset int64 `json:"base_offset"`
	// CurrentOffset is the next offset the segment would assign
	CurrentOffset int64 `json:"current_offset"`
	// SizeBytes is the physical size of the segment's log file
	SizeBytes int64 `json:"size_bytes"`
	// Status is "closed" or "active"
	Status SegmentStatus `json:"status"`
}

// PartitionInfo is a point-in-time snapshot of a partition's segment chain.
type PartitionInfo struct {
	Topic         string        `json:"topic"`
	PartitionID   int           `json:"partition_id"`
	TotalSegments int           `json:"total_segments"`
	NextOffset    int64         `json:"next_offset"`
	Segments      []SegmentInfo `json:"segments"`
}
