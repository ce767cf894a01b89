package log

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_AppendRead(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	payloads := [][]byte{
		[]byte("first"),
		[]byte("second message"),
		{},
		{0x00, 0xff, 0x7f, 0x80},
	}

	for i, payload := range payloads {
		offset, err := seg.Append(payload)
		require.NoError(t, err)
		assert.Equal(t, int64(i), offset)
	}

	assert.Equal(t, int64(len(payloads)), seg.CurrentOffset())

	for i, expected := range payloads {
		got, err := seg.Read(int64(i))
		require.NoError(t, err, "Failed to read offset %d", i)
		assert.Equal(t, expected, got, "Offset %d mismatch", i)
	}
}

func TestSegment_FileNaming(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(42, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	assert.FileExists(t, filepath.Join(tmpDir, "0000000000000000042.log"))
	assert.FileExists(t, filepath.Join(tmpDir, "0000000000000000042.index"))
}

func TestSegment_BaseOffsetAssignment(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(100, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	offset, err := seg.Append([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), offset)
	assert.Equal(t, int64(101), seg.CurrentOffset())
}

func TestSegment_ReadOutOfRange(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(10, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	_, err = seg.Append([]byte("only message"))
	require.NoError(t, err)

	_, err = seg.Read(9)
	assert.IsType(t, OffsetOutOfRangeError{}, err)

	_, err = seg.Read(11)
	assert.IsType(t, OffsetOutOfRangeError{}, err)

	_, err = seg.Read(10)
	assert.NoError(t, err)
}

func TestSegment_FrameFormat(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)

	payload := []byte("hello")
	_, err = seg.Append(payload)
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	raw, err := os.ReadFile(filepath.Join(tmpDir, "0000000000000000000.log"))
	require.NoError(t, err)
	require.Len(t, raw, frameHeaderSize+len(payload))
	assert.Equal(t, uint32(len(payload)), binary.BigEndian.Uint32(raw[:frameHeaderSize]))
	assert.Equal(t, payload, raw[frameHeaderSize:])
}

func TestSegment_Recovery(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)

	payloads := [][]byte{
		[]byte("one"),
		[]byte("two"),
		[]byte("three"),
	}
	for _, payload := range payloads {
		_, err := seg.Append(payload)
		require.NoError(t, err)
	}
	require.NoError(t, seg.Close())

	// Reopen: the rescan must recover the write cursor
	reopened, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, int64(3), reopened.CurrentOffset())

	for i, expected := range payloads {
		got, err := reopened.Read(int64(i))
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}

	// Appends resume where the scan stopped
	offset, err := reopened.Append([]byte("four"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), offset)
}

func TestSegment_RecoveryTruncatedFrame(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	_, err = seg.Append([]byte("intact"))
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	logPath := filepath.Join(tmpDir, "0000000000000000000.log")

	// Append a frame header that declares more bytes than follow
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	partial := make([]byte, frameHeaderSize+2)
	binary.BigEndian.PutUint32(partial, 100)
	_, err = file.Write(partial)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	reopened, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	// Only the intact frame counts; the partial frame is truncated away
	assert.Equal(t, int64(1), reopened.CurrentOffset())

	stat, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Equal(t, int64(frameHeaderSize+len("intact")), stat.Size())

	// The segment stays writable at the recovered boundary
	offset, err := reopened.Append([]byte("after recovery"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), offset)

	got, err := reopened.Read(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("after recovery"), got)
}

func TestSegment_RecoveryTruncatedHeader(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	_, err = seg.Append([]byte("ok"))
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	// A length prefix that cannot be fully read ends the scan
	logPath := filepath.Join(tmpDir, "0000000000000000000.log")
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = file.Write([]byte{0x00, 0x00})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	reopened, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, int64(1), reopened.CurrentOffset())
}

func TestSegment_ReadCorrupt(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	_, err = seg.Append([]byte("aaaa"))
	require.NoError(t, err)
	_, err = seg.Append([]byte("bbbb"))
	require.NoError(t, err)

	// Truncate the file behind the segment's back so offset 1 is unreadable
	logPath := filepath.Join(tmpDir, "0000000000000000000.log")
	require.NoError(t, os.Truncate(logPath, frameHeaderSize+4+2))

	_, err = seg.Read(1)
	assert.IsType(t, CorruptSegmentError{}, err)

	// Offsets before the corruption still read fine
	got, err := seg.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaa"), got)
}

func TestSegment_SparseIndex(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	// Each frame is 4+2048 bytes, so every second append crosses the
	// 4096-byte interval and emits one index entry
	payload := bytes.Repeat([]byte("x"), 2048)
	for i := 0; i < 4; i++ {
		_, err := seg.Append(payload)
		require.NoError(t, err)
	}

	raw, err := os.ReadFile(filepath.Join(tmpDir, "0000000000000000000.index"))
	require.NoError(t, err)
	require.Len(t, raw, 2*indexEntrySize)

	// First entry: frame at relative offset 1, written at file position 2052
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(raw[0:4]))
	assert.Equal(t, uint32(frameHeaderSize+2048), binary.BigEndian.Uint32(raw[4:8]))

	// Second entry: relative offset 3 at position 3*(4+2048)
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(raw[8:12]))
	assert.Equal(t, uint32(3*(frameHeaderSize+2048)), binary.BigEndian.Uint32(raw[12:16]))
}

func TestSegment_IndexNotWrittenBelowInterval(t *testing.T) {
	tmpDir := t.TempDir()

	seg, err := OpenSegment(0, tmpDir)
	require.NoError(t, err)
	defer seg.Close()

	for i := 0; i < 10; i++ {
		_, err := seg.Append([]byte("small"))
		require.NoError(t, err)
	}

	stat, err := os.Stat(filepath.Join(tmpDir, "0000000000000000000.index"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stat.Size())
}
