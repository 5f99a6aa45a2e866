package utils

import (
	"bytes"
)

// SegmentWriterFileRecorder provides a stub for a segment file which records what is written to it in memory. It allows
// us to inspect the exact bytes a SegmentWriter produced and to feed them into a SegmentReader.
type SegmentWriterFileRecorder struct {
	bytes.Buffer

	// Writes counts the calls to Write.
	Writes int

	// Flushes counts the calls to Flush.
	Flushes int

	// FlushedLength is the length of the buffer at the time of the last flush.
	FlushedLength int
}

func (s *SegmentWriterFileRecorder) Write(p []byte) (int, error) {
	s.Writes++
	return s.Buffer.Write(p)
}

func (s *SegmentWriterFileRecorder) Flush() error {
	s.Flushes++
	s.FlushedLength = s.Len()
	return nil
}
