package utils

import (
	"errors"
	"io"
)

// SegmentFileMemory provides an in-memory stand-in for a segment file on disk. It supports everything a log file needs
// for appending, truncating and re-reading, and can be told to fail writes or syncs to simulate I/O errors.
type SegmentFileMemory struct {
	Data   []byte
	Offset int64

	// Closed is set when Close was called. All operations fail afterward.
	Closed bool

	// Syncs counts the calls to Sync.
	Syncs int

	// Reads counts the calls to Read.
	Reads int

	// FailReadAt makes the call to Read with this number fail, counting from 1. Later calls succeed again. Zero
	// disables it.
	FailReadAt int

	// FailWrites makes every call to Write fail.
	FailWrites bool

	// FailSyncs makes every call to Sync fail.
	FailSyncs bool

	// FailTruncates makes every call to Truncate fail.
	FailTruncates bool

	// LimitWrites enables WriteBudget.
	LimitWrites bool

	// WriteBudget is the number of bytes which can still be written while LimitWrites is set. A write exceeding the
	// budget is cut short and fails, which simulates a torn write.
	WriteBudget int64
}

var errClosed = errors.New("file already closed")

func (s *SegmentFileMemory) Write(p []byte) (int, error) {
	if s.Closed {
		return 0, errClosed
	}
	if s.FailWrites {
		return 0, ErrInjected
	}
	n := len(p)
	var err error
	if s.LimitWrites {
		if s.WriteBudget < int64(n) {
			n = int(max(s.WriteBudget, 0))
			err = ErrInjected
		}
		s.WriteBudget -= int64(n)
	}
	if end := s.Offset + int64(n); int64(len(s.Data)) < end {
		s.Data = append(s.Data, make([]byte, end-int64(len(s.Data)))...)
	}
	copy(s.Data[s.Offset:], p[:n])
	s.Offset += int64(n)
	return n, err
}

func (s *SegmentFileMemory) Read(p []byte) (int, error) {
	if s.Closed {
		return 0, errClosed
	}
	s.Reads++
	if s.Reads == s.FailReadAt {
		return 0, ErrInjected
	}
	if int64(len(s.Data)) <= s.Offset {
		return 0, io.EOF
	}
	n := copy(p, s.Data[s.Offset:])
	s.Offset += int64(n)
	return n, nil
}

func (s *SegmentFileMemory) Seek(offset int64, whence int) (int64, error) {
	if s.Closed {
		return 0, errClosed
	}
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += s.Offset
	case io.SeekEnd:
		offset += int64(len(s.Data))
	default:
		return 0, errors.New("invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("negative offset")
	}
	s.Offset = offset
	return offset, nil
}

func (s *SegmentFileMemory) Truncate(size int64) error {
	if s.Closed {
		return errClosed
	}
	if s.FailTruncates {
		return ErrInjected
	}
	if size < int64(len(s.Data)) {
		s.Data = s.Data[:size]
	} else {
		s.Data = append(s.Data, make([]byte, size-int64(len(s.Data)))...)
	}
	return nil
}

func (s *SegmentFileMemory) Sync() error {
	if s.Closed {
		return errClosed
	}
	s.Syncs++
	if s.FailSyncs {
		return ErrInjected
	}
	return nil
}

func (s *SegmentFileMemory) Close() error {
	if s.Closed {
		return errClosed
	}
	s.Closed = true
	return nil
}

func (s *SegmentFileMemory) Name() string {
	return "in-memory-file"
}
