package wal

import (
	intsegment "github.com/backbone81/record-log/internal/segment"
	intwal "github.com/backbone81/record-log/internal/wal"
)

// Reader provides functionality to read the write-ahead log from start to end.
//
// Instances of this struct are NOT safe for concurrent use. Either use it on a single Go routine or provide your own
// external synchronization.
type Reader = intwal.Reader

// ReaderValue is a single record returned by the Reader.
type ReaderValue = intsegment.SegmentReaderValue

// NewReader creates a new Reader positioned before the first record of the log file.
var NewReader = intwal.NewReader

var (
	// ErrRecordNone is wrapped by every error the Reader returns once no more records can be read.
	ErrRecordNone = intwal.ErrRecordNone

	// ErrTruncatedFragment reports a file which ends in the middle of a fragment.
	ErrTruncatedFragment = intwal.ErrTruncatedFragment

	// ErrTruncatedRecord reports a file which ends before the last fragment of a record.
	ErrTruncatedRecord = intwal.ErrTruncatedRecord

	// ErrChecksumMismatch reports a corrupt fragment.
	ErrChecksumMismatch = intwal.ErrChecksumMismatch

	// ErrReaderNotExhausted reports a Reader converted into a Writer before the end of the log file was reached.
	ErrReaderNotExhausted = intwal.ErrReaderNotExhausted

	// ErrCorruptBeforeEnd reports a log file with valid fragments behind a corrupt one.
	ErrCorruptBeforeEnd = intwal.ErrCorruptBeforeEnd
)
