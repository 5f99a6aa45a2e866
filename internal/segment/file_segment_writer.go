package segment

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/backbone81/record-log/internal/utils"
)

var (
	ErrSegmentExists = errors.New("the WAL file already exists")
	ErrRewindInvalid = errors.New("the WAL can only be rewound to a length it already has")
)

// AppendFile is an interface which needs to be implemented by the log file a FileSegmentWriter appends to.
type AppendFile interface {
	io.WriteCloser
	io.Seeker
	Truncate(size int64) error
	Sync() error
	Name() string
}

// FileSegmentWriter appends records to a log file it owns. Every flush of a fragment is handed to the sync policy which
// decides when the file is synced to stable storage.
//
// Instances of FileSegmentWriter are NOT safe to use concurrently. You need to provide external synchronization.
type FileSegmentWriter struct {
	noCopy utils.NoCopy

	// The final path of the log file. A file created by CreateSegment still reports its temporary name after the
	// rename.
	filePath string

	// The destination the segment writer appends to. It tracks the length of the file.
	destination appendFileDestination

	// The segment writer doing the fragmentation. It is replaced on Rewind.
	segmentWriter *SegmentWriter
}

// appendFileDestination connects a SegmentWriter to a log file. Flushing is delegated to the sync policy, as the
// file itself is not buffered.
type appendFileDestination struct {
	file       AppendFile
	length     int64
	syncPolicy SyncPolicy
}

func (d *appendFileDestination) Write(p []byte) (int, error) {
	n, err := d.file.Write(p)
	d.length += int64(n)
	return n, err
}

func (d *appendFileDestination) Flush() error {
	return d.syncPolicy.Flushed()
}

// CreateSegmentConfig is the configuration required for a call to CreateSegment.
type CreateSegmentConfig struct {
	// SyncPolicy describes how changes are flushed to stable storage. SyncPolicyImmediate is used when nil.
	SyncPolicy SyncPolicy
}

// CreateSegment creates a new empty log file. It will create the new file with the file extension ".new" appended to
// the file name and rename it after it was synced to stable storage. This ensures that the log file is only visible
// in the directory when it was correctly created.
func CreateSegment(filePath string, createSegmentConfig CreateSegmentConfig) (*FileSegmentWriter, error) {
	if _, err := os.Stat(filePath); err == nil {
		return nil, fmt.Errorf("creating the WAL file %q: %w", filePath, ErrSegmentExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking the WAL file %q: %w", filePath, err)
	}

	// Remove any temporary file which might be there from an earlier failure.
	newFilePath := filePath + ".new"
	if err := os.Remove(newFilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing the WAL file %q: %w", newFilePath, err)
	}

	file, err := os.OpenFile(newFilePath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o664) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		return nil, fmt.Errorf("creating the WAL file %q: %w", newFilePath, err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.Join(
			fmt.Errorf("flushing the WAL file %q: %w", newFilePath, err),
			file.Close(),
		)
	}

	file, err = renameSegment(file, 0, filePath)
	if err != nil {
		return nil, err
	}

	syncPolicy := createSegmentConfig.SyncPolicy
	if syncPolicy == nil {
		syncPolicy = NewSyncPolicyImmediate()
	}
	fileSegmentWriter, err := NewFileSegmentWriter(file, 0, syncPolicy)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	fileSegmentWriter.filePath = filePath
	return fileSegmentWriter, nil
}

// OpenSegmentForAppend opens an existing log file and continues writing at its end. The content of the file is not
// checked. Use OpenSegment and SegmentReader.ToWriter to recover a file which might end with an incomplete record.
func OpenSegmentForAppend(filePath string, syncPolicy SyncPolicy) (*FileSegmentWriter, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR, 0) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		return nil, fmt.Errorf("opening the WAL file %q: %w", filePath, err)
	}

	length, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("seeking to the end of the WAL file %q: %w", filePath, err),
			file.Close(),
		)
	}

	fileSegmentWriter, err := NewFileSegmentWriter(file, length, syncPolicy)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return fileSegmentWriter, nil
}

// NewFileSegmentWriter creates a FileSegmentWriter from a file which is already open and positioned at its end. The
// length is the current size of the file in bytes. The FileSegmentWriter takes ownership of the file.
func NewFileSegmentWriter(file AppendFile, length int64, syncPolicy SyncPolicy) (*FileSegmentWriter, error) {
	fileSegmentWriter := FileSegmentWriter{
		filePath: file.Name(),
		destination: appendFileDestination{
			file:       file,
			length:     length,
			syncPolicy: syncPolicy,
		},
	}
	segmentWriter, err := NewSegmentWriter(&fileSegmentWriter.destination, NewSegmentWriterConfig{
		Length: length,
	})
	if err != nil {
		return nil, err
	}
	fileSegmentWriter.segmentWriter = segmentWriter

	if err := syncPolicy.Startup(file); err != nil {
		return nil, fmt.Errorf("starting the %s sync policy: %w", syncPolicy, err)
	}
	return &fileSegmentWriter, nil
}

// FilePath returns the file path of the file this writer is writing to.
func (w *FileSegmentWriter) FilePath() string {
	return w.filePath
}

// Length returns the number of bytes written to the file, including bytes of records which failed.
func (w *FileSegmentWriter) Length() int64 {
	return w.destination.length
}

// BlockOffset returns the offset in bytes from the start of the current block.
func (w *FileSegmentWriter) BlockOffset() int {
	return w.segmentWriter.BlockOffset()
}

// SyncPolicy returns the sync policy in use.
func (w *FileSegmentWriter) SyncPolicy() SyncPolicy {
	return w.destination.syncPolicy
}

// AddRecord appends data as a single logical record. See SegmentWriter.AddRecord for details. After an error, Rewind
// must be called before the next record is added.
func (w *FileSegmentWriter) AddRecord(data []byte) error {
	return w.segmentWriter.AddRecord(data)
}

// Rewind cuts the file back to the given length and continues writing from there. This removes whatever a failed
// AddRecord left behind, when called with the length from before the call.
func (w *FileSegmentWriter) Rewind(length int64) error {
	if length < 0 || w.destination.length < length {
		return ErrRewindInvalid
	}
	if err := w.destination.file.Truncate(length); err != nil {
		return fmt.Errorf("cutting off the WAL file at offset %d: %w", length, err)
	}
	if _, err := w.destination.file.Seek(length, io.SeekStart); err != nil {
		return fmt.Errorf("seeking the WAL file to offset %d: %w", length, err)
	}
	segmentWriter, err := NewSegmentWriter(&w.destination, NewSegmentWriterConfig{
		Length: length,
	})
	if err != nil {
		return err
	}
	w.destination.length = length
	w.segmentWriter = segmentWriter
	return nil
}

// Sync flushes the content of the file to stable storage regardless of the sync policy.
func (w *FileSegmentWriter) Sync() error {
	if err := w.destination.file.Sync(); err != nil {
		return fmt.Errorf("syncing the WAL file: %w", err)
	}
	return nil
}

// Close shuts down the sync policy, which syncs pending changes, and closes the file.
func (w *FileSegmentWriter) Close() error {
	syncErr := w.destination.syncPolicy.Shutdown()
	closeErr := w.destination.file.Close()
	return errors.Join(syncErr, closeErr)
}
