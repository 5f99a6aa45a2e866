package wal

import (
	"github.com/backbone81/record-log/internal/encoding"
	"github.com/backbone81/record-log/internal/segment"
	"github.com/backbone81/record-log/internal/utils"
)

var (
	ErrRecordNone         = segment.ErrRecordNone
	ErrTruncatedFragment  = segment.ErrTruncatedFragment
	ErrTruncatedRecord    = segment.ErrTruncatedRecord
	ErrChecksumMismatch   = encoding.ErrChecksumMismatch
	ErrReaderNotExhausted = segment.ErrReaderNotExhausted
	ErrCorruptBeforeEnd   = segment.ErrCorruptBeforeEnd
)

// Reader provides functionality to read the write-ahead log from start to end.
//
// Instances of this struct are NOT safe for concurrent use. Either use it on a single Go routine or provide your own
// external synchronization.
type Reader struct {
	noCopy utils.NoCopy

	segmentReader *segment.SegmentReader
}

// NewReader creates a new Reader positioned before the first record of the log file.
//
// To avoid resources leaking, the returned Reader needs to be closed by calling Close() or converted into a Writer
// with ToWriter().
func NewReader(filePath string) (*Reader, error) {
	segmentReader, err := segment.OpenSegment(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{
		segmentReader: segmentReader,
	}, nil
}

// FilePath returns the file path of the file this reader is reading from.
func (r *Reader) FilePath() string {
	return r.segmentReader.FilePath()
}

// Next reports if a record has been successfully read. When it returns true, Err() returns nil and Value() contains
// valid data. When it returns false, Err() contains the reason and Value() contains invalid data.
func (r *Reader) Next() bool {
	return r.segmentReader.Next()
}

// Value returns the last record read. The values are only valid after the first call to Next() and while Err() is
// nil. The data is overwritten by the next call to Next().
func (r *Reader) Value() segment.SegmentReaderValue {
	return r.segmentReader.Value()
}

// Err returns the error for the last call to Next(). It always wraps ErrRecordNone. It wraps io.EOF when the end of
// the file was reached cleanly, and something else when the file ends with an incomplete or corrupt record.
func (r *Reader) Err() error {
	return r.segmentReader.Err()
}

// Offset returns the offset in bytes just behind the last complete record read.
func (r *Reader) Offset() int64 {
	return r.segmentReader.Offset()
}

// DroppedBytes returns the number of payload bytes skipped because they belong to incomplete records.
func (r *Reader) DroppedBytes() int64 {
	return r.segmentReader.DroppedBytes()
}

// Close closes the file the Reader is reading from.
func (r *Reader) Close() error {
	return r.segmentReader.Close()
}

// ToWriter returns a Writer appending to the log file behind the last complete record. You must have read all records
// before you call this method. After a call to ToWriter(), you cannot use the Reader anymore.
//
// A log file which is corrupt in front of valid records is not changed and ErrCorruptBeforeEnd is returned.
func (r *Reader) ToWriter(options ...WriterOption) (*Writer, error) {
	writer := newWriter(options...)
	segmentWriter, err := r.segmentReader.ToWriter(writer.syncPolicy)
	if err != nil {
		return nil, err
	}
	writer.segmentWriter = segmentWriter
	return writer, nil
}
