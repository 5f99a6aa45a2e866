package wal

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/backbone81/record-log/internal/segment"
)

var (
	ErrWriterFailed = errors.New("the WAL writer failed and cannot be used anymore")
	ErrWriterClosed = errors.New("the WAL writer is closed")
)

// Writer provides the main functionality for writing to the write-ahead log.
//
// Writer is safe to use from multiple Go routines concurrently. Records are written one after the other, so the
// fragments of different records never interleave.
//
// You can only create a writer with the Reader.ToWriter function. This makes sure that you have read all records before
// writing to the write-ahead log.
type Writer struct {
	mutex sync.Mutex

	segmentWriter *segment.FileSegmentWriter
	syncPolicy    segment.SyncPolicy

	// Set when the writer cannot be used anymore. Returned by every following call to AddRecord.
	err error
}

// WriterOption describes the function signature which all writer options need to implement.
type WriterOption func(w *Writer)

// WithSyncPolicyNone overwrites the default sync policy with sync policy none.
// Can be used with Reader.ToWriter.
func WithSyncPolicyNone() WriterOption {
	return func(w *Writer) {
		w.syncPolicy = segment.NewSyncPolicyNone()
	}
}

// WithSyncPolicyImmediate overwrites the default sync policy with sync policy immediate.
// Can be used with Reader.ToWriter.
func WithSyncPolicyImmediate() WriterOption {
	return func(w *Writer) {
		w.syncPolicy = segment.NewSyncPolicyImmediate()
	}
}

// WithSyncPolicyPeriodic overwrites the default sync policy with sync policy periodic.
// Can be used with Reader.ToWriter.
func WithSyncPolicyPeriodic(syncAfterFlushes int, syncEvery time.Duration) WriterOption {
	return func(w *Writer) {
		w.syncPolicy = segment.NewSyncPolicyPeriodic(syncAfterFlushes, syncEvery)
	}
}

// newWriter returns a writer with all options applied on top of the defaults. The segment writer is not set.
func newWriter(options ...WriterOption) *Writer {
	writer := Writer{
		syncPolicy: segment.NewSyncPolicyImmediate(),
	}
	for _, option := range options {
		option(&writer)
	}
	return &writer
}

// FilePath returns the file path of the file this writer is writing to.
func (w *Writer) FilePath() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.segmentWriter.FilePath()
}

// Length returns the size of the log file in bytes.
func (w *Writer) Length() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.segmentWriter.Length()
}

// BlockOffset returns the offset in bytes from the start of the current block.
func (w *Writer) BlockOffset() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.segmentWriter.BlockOffset()
}

// SyncPolicy returns the name of the sync policy in use.
func (w *Writer) SyncPolicy() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.syncPolicy.String()
}

// AddRecord appends the given data as a new record to the write-ahead log. When it returns without an error, every
// fragment of the record was flushed according to the sync policy.
//
// When writing the record fails, whatever was written of it is removed from the file again and the error is returned.
// The writer can be used for the next record afterward. If removing fails as well, the writer becomes unusable and
// returns ErrWriterFailed from now on.
func (w *Writer) AddRecord(data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.err != nil {
		return w.err
	}

	start := time.Now()
	length := w.segmentWriter.Length()
	err := w.segmentWriter.AddRecord(data)

	duration := time.Since(start).Seconds()
	if duration > 1.0 {
		log.Printf("WARNING: Adding a record of %d bytes needed %f seconds which is too slow.\n", len(data), duration)
	}
	AddRecordDuration.Observe(duration)

	if err != nil {
		return w.rewind(length, fmt.Errorf("adding a record of %d bytes to the WAL: %w", len(data), err))
	}
	return nil
}

// rewind removes the incomplete record from the end of the file, so the next record continues at length.
func (w *Writer) rewind(length int64, cause error) error {
	WriterRewindTotal.Inc()
	if err := w.segmentWriter.Rewind(length); err != nil {
		WriterFailureTotal.Inc()
		log.Printf("ERROR: Removing the incomplete record from the WAL failed: %s\n", err)
		w.err = errors.Join(ErrWriterFailed, err)
		return errors.Join(cause, w.err)
	}
	return cause
}

// Sync flushes the content of the file to stable storage regardless of the sync policy.
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.err != nil {
		return w.err
	}
	return w.segmentWriter.Sync()
}

// Close shuts down the sync policy and closes the underlying file.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if errors.Is(w.err, ErrWriterClosed) {
		return ErrWriterClosed
	}
	w.err = ErrWriterClosed
	return w.segmentWriter.Close()
}
