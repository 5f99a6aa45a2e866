//go:build !windows

package segment

import (
	"os"
)

// renameSegment moves the log file to its final path while it stays open. This works on linux but not on windows.
func renameSegment(file *os.File, _ int64, newFilePath string) (*os.File, error) {
	oldFilePath := file.Name()
	if err := os.Rename(oldFilePath, newFilePath); err != nil {
		return nil, renameSegmentError(oldFilePath, newFilePath, err, file.Close())
	}
	return file, nil
}
