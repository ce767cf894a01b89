package log

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	// IndexInterval is the number of log bytes written between sparse index
	// entries.
	IndexInterval = 4096
	// frameHeaderSize is the length prefix preceding every payload
	frameHeaderSize = 4
	// indexEntrySize is relative offset (4 bytes) + file position (4 bytes)
	indexEntrySize = 8
)

// Segment owns one append-only log file and one sparse index file, covering a
// contiguous offset range starting at its base offset.
//
// Log file format, repeated with no trailing metadata:
//
//	[4 bytes big-endian unsigned length][length bytes of payload]
//
// Index file format, one entry per IndexInterval bytes of log growth:
//
//	[4 bytes big-endian relative offset][4 bytes big-endian file position]
//
// A Segment performs no internal locking; the owning Partition serializes all
// calls.
type Segment struct {
	baseOffset    int64
	currentOffset int64
	logFile       *os.File
	indexFile     *os.File
	logPath       string
	indexPath     string

	// writePos is the byte position of the next frame, i.e. the end of the
	// last fully validated frame.
	writePos int64
	// bytesSinceIndex accumulates log growth since the last index entry
	bytesSinceIndex int64
}

// OpenSegment creates or reopens the segment with the given base offset in
// dir. Reopening rescans the log file to recover the write cursor: frames are
// counted until end-of-file or a truncated trailing frame, and the file is
// truncated back to the last fully validated frame boundary.
func OpenSegment(baseOffset int64, dir string) (*Segment, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	stem := fmt.Sprintf("%019d", baseOffset)
	logPath := filepath.Join(dir, stem+".log")
	indexPath := filepath.Join(dir, stem+".index")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	indexFile, err := os.OpenFile(indexPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		//nolint:errcheck // Ignore close error
		_ = logFile.Close()
		return nil, err
	}

	s := &Segment{
		baseOffset:    baseOffset,
		currentOffset: baseOffset,
		logFile:       logFile,
		indexFile:     indexFile,
		logPath:       logPath,
		indexPath:     indexPath,
	}

	if err := s.recover(); err != nil {
		//nolint:errcheck // Ignore close errors
		_ = logFile.Close()
		_ = indexFile.Close()
		return nil, err
	}

	return s, nil
}

// recover scans the log file from the start, counting fully validated frames.
// A length prefix that cannot be fully read, or a body shorter than declared,
// ends the scan; anything past that boundary is discarded by truncation so
// that subsequent appends resume at a clean frame boundary.
func (s *Segment) recover() error {
	stat, err := s.logFile.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()

	var (
		pos   int64
		count int64
	)
	header := make([]byte, frameHeaderSize)
	for pos+frameHeaderSize <= size {
		if _, err := s.logFile.ReadAt(header, pos); err != nil {
			return err
		}
		frameLen := int64(binary.BigEndian.Uint32(header))
		if pos+frameHeaderSize+frameLen > size {
			// Truncated trailing frame: stop at the last valid boundary
			break
		}
		pos += frameHeaderSize + frameLen
		count++
	}

	if pos < size {
		if err := s.logFile.Truncate(pos); err != nil {
			return err
		}
		log.Warn().
			Str("segment", s.logPath).
			Int64("valid_bytes", pos).
			Int64("discarded_bytes", size-pos).
			Msg("Truncated partial frame during segment recovery")
	}

	s.writePos = pos
	s.currentOffset = s.baseOffset + count

	return nil
}

// Append writes one length-prefixed frame at the current end of the log file
// and returns the offset assigned to it. The write completes before Append
// returns; no batching, no fsync.
func (s *Segment) Append(payload []byte) (int64, error) {
	if len(payload) > math.MaxUint32 {
		return 0, FrameTooLargeError{Size: len(payload)}
	}

	frame := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	framePos := s.writePos
	if _, err := s.logFile.WriteAt(frame, framePos); err != nil {
		return 0, err
	}
	s.writePos += int64(len(frame))

	s.bytesSinceIndex += int64(len(frame))
	if s.bytesSinceIndex >= IndexInterval {
		if err := s.writeIndexEntry(s.currentOffset, framePos); err != nil {
			return 0, err
		}
		s.bytesSinceIndex = 0
	}

	offset := s.currentOffset
	s.currentOffset++

	return offset, nil
}

// writeIndexEntry appends one sparse index entry mapping the given absolute
// offset to the byte position of its frame in the log file.
func (s *Segment) writeIndexEntry(offset, framePos int64) error {
	entry := make([]byte, indexEntrySize)
	binary.BigEndian.PutUint32(entry[0:4], uint32(offset-s.baseOffset))
	binary.BigEndian.PutUint32(entry[4:8], uint32(framePos))
	_, err := s.indexFile.Write(entry)
	return err
}

// Read returns the payload stored at the given absolute offset. The log file
// is scanned sequentially from the start; the sparse index is intentionally
// not consulted.
func (s *Segment) Read(offset int64) ([]byte, error) {
	if offset < s.baseOffset || offset >= s.currentOffset {
		return nil, OffsetOutOfRangeError{Offset: offset, Low: s.baseOffset, High: s.currentOffset}
	}

	target := offset - s.baseOffset
	header := make([]byte, frameHeaderSize)

	var pos int64
	for i := int64(0); ; i++ {
		if _, err := s.logFile.ReadAt(header, pos); err != nil {
			return nil, CorruptSegmentError{Path: s.logPath, Offset: offset}
		}
		frameLen := int64(binary.BigEndian.Uint32(header))
		pos += frameHeaderSize

		if i == target {
			payload := make([]byte, frameLen)
			if _, err := s.logFile.ReadAt(payload, pos); err != nil {
				return nil, CorruptSegmentError{Path: s.logPath, Offset: offset}
			}
			return payload, nil
		}

		pos += frameLen
	}
}

// Contains reports whether the segment's offset range claims offset.
func (s *Segment) Contains(offset int64) bool {
	return offset >= s.baseOffset && offset < s.currentOffset
}

// BaseOffset returns the offset of the segment's first message.
func (s *Segment) BaseOffset() int64 {
	return s.baseOffset
}

// CurrentOffset returns the next offset the segment would assign.
func (s *Segment) CurrentOffset() int64 {
	return s.currentOffset
}

// Size returns the physical size of the segment's log file.
func (s *Segment) Size() (int64, error) {
	stat, err := os.Stat(s.logPath)
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

// LogPath returns the path of the segment's log file.
func (s *Segment) LogPath() string {
	return s.logPath
}

// Close releases both file handles. No other operation may be called on the
// segment afterward.
func (s *Segment) Close() error {
	var lastErr error
	if s.logFile != nil {
		if err := s.logFile.Close(); err != nil {
			lastErr = err
		}
	}
	if s.indexFile != nil {
		if err := s.indexFile.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
