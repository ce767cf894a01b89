package log

import "fmt"

// OffsetOutOfRangeError indicates a requested offset outside the readable
// range [Low, High).
type OffsetOutOfRangeError struct {
	Offset int64
	Low    int64
	High   int64
}

func (e OffsetOutOfRangeError) Error() string {
	return fmt.Sprintf("offset %d out of range [%d, %d)", e.Offset, e.Low, e.High)
}

// OffsetNotFoundError indicates an offset inside the partition's advertised
// range that no segment's range claims. This is an invariant violation and is
// always surfaced to the caller.
type OffsetNotFoundError struct {
	Offset int64
}

func (e OffsetNotFoundError) Error() string {
	return fmt.Sprintf("offset %d not found in any segment", e.Offset)
}

// CorruptSegmentError indicates a frame length prefix or body that could not
// be fully read while scanning a log file.
type CorruptSegmentError struct {
	Path   string
	Offset int64
}

func (e CorruptSegmentError) Error() string {
	return fmt.Sprintf("corrupt segment %s: offset %d unreadable", e.Path, e.Offset)
}

// FrameTooLargeError indicates a payload whose length does not fit the 4-byte
// frame header.
type FrameTooLargeError struct {
	Size int
}

func (e FrameTooLargeError) Error() string {
	return fmt.Sprintf("payload size %d exceeds frame format limit", e.Size)
}
