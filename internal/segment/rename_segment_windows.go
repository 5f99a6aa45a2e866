//go:build windows

package segment

import (
	"errors"
	"io"
	"os"
)

// renameSegment moves the log file to its final path by closing it, renaming it and then reopening it again at the
// given offset. This is necessary on windows, as it does not allow renaming of open files.
func renameSegment(file *os.File, offset int64, newFilePath string) (*os.File, error) {
	oldFilePath := file.Name()
	if err := file.Close(); err != nil {
		return nil, renameSegmentError(oldFilePath, newFilePath, err, nil)
	}
	if err := os.Rename(oldFilePath, newFilePath); err != nil {
		return nil, renameSegmentError(oldFilePath, newFilePath, err, nil)
	}

	reopened, err := os.OpenFile(newFilePath, os.O_RDWR, 0) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		return nil, renameSegmentError(oldFilePath, newFilePath, err, nil)
	}
	if _, err := reopened.Seek(offset, io.SeekStart); err != nil {
		return nil, renameSegmentError(oldFilePath, newFilePath, errors.Join(err, reopened.Close()), nil)
	}
	return reopened, nil
}
