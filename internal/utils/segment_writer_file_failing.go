package utils

import (
	"errors"
)

// ErrInjected is returned by the failing stubs once their failure point is reached.
var ErrInjected = errors.New("injected I/O failure")

// SegmentWriterFileFailing records what is written to it like SegmentWriterFileRecorder, but starts failing at a given
// call. The limits count calls starting at one. A value of zero disables that failure.
type SegmentWriterFileFailing struct {
	SegmentWriterFileRecorder

	// FailWriteAt is the number of the first call to Write which fails. Every following call fails as well.
	FailWriteAt int

	// FailFlushAt is the number of the first call to Flush which fails. Every following call fails as well.
	FailFlushAt int
}

func (s *SegmentWriterFileFailing) Write(p []byte) (int, error) {
	if 0 < s.FailWriteAt && s.FailWriteAt <= s.Writes+1 {
		s.Writes++
		return 0, ErrInjected
	}
	return s.SegmentWriterFileRecorder.Write(p)
}

func (s *SegmentWriterFileFailing) Flush() error {
	if 0 < s.FailFlushAt && s.FailFlushAt <= s.Flushes+1 {
		s.Flushes++
		return ErrInjected
	}
	return s.SegmentWriterFileRecorder.Flush()
}
