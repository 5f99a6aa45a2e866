package segment

import (
	"errors"
	"fmt"
)

func renameSegmentError(oldFilePath string, newFilePath string, err error, closeErr error) error {
	return errors.Join(
		fmt.Errorf("renaming the WAL file from %q to %q: %w", oldFilePath, newFilePath, err),
		closeErr,
	)
}
