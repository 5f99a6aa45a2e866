package wal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/backbone81/record-log/internal/segment"
)

var ErrNotRegularFile = errors.New("the WAL path is not a regular file")

// IsInitialized reports if there is already a write-ahead log available at the given file path.
func IsInitialized(filePath string) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking the WAL file %q: %w", filePath, err)
	}
	if !fileInfo.Mode().IsRegular() {
		return false, fmt.Errorf("checking the WAL file %q: %w", filePath, ErrNotRegularFile)
	}
	return true, nil
}

// Init initializes a new write-ahead log at the given file path.
func Init(filePath string, options ...WriterOption) error {
	// We use a writer here, to reuse its options. But we do not work with that writer.
	writer := newWriter(options...)
	segmentWriter, err := segment.CreateSegment(filePath, segment.CreateSegmentConfig{
		SyncPolicy: writer.syncPolicy,
	})
	if err != nil {
		return err
	}
	if err := segmentWriter.Close(); err != nil {
		return err
	}
	return nil
}

// InitIfRequired initializes the write-ahead log if it is not yet initialized.
func InitIfRequired(filePath string) error {
	initialized, err := IsInitialized(filePath)
	if err != nil {
		return err
	}

	if initialized {
		return nil
	}

	if err := Init(filePath); err != nil {
		return err
	}
	return nil
}
