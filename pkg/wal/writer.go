package wal

import (
	intencoding "github.com/backbone81/record-log/internal/encoding"
	intsegment "github.com/backbone81/record-log/internal/segment"
	intwal "github.com/backbone81/record-log/internal/wal"
)

// Writer provides the main functionality for writing to the write-ahead log.
//
// Writer is safe to use from multiple Go routines concurrently.
//
// You can only create a writer with the Reader.ToWriter function. This makes sure that you have read all records before
// writing to the write-ahead log.
type Writer = intwal.Writer

// WriterOption describes the function signature which all writer options need to implement.
type WriterOption = intwal.WriterOption

// WithSyncPolicyNone overwrites the default sync policy with sync policy none.
// Can be used with Reader.ToWriter.
var WithSyncPolicyNone = intwal.WithSyncPolicyNone

// WithSyncPolicyImmediate overwrites the default sync policy with sync policy immediate.
// Can be used with Reader.ToWriter.
var WithSyncPolicyImmediate = intwal.WithSyncPolicyImmediate

// WithSyncPolicyPeriodic overwrites the default sync policy with sync policy periodic.
// Can be used with Reader.ToWriter.
var WithSyncPolicyPeriodic = intwal.WithSyncPolicyPeriodic

var (
	// ErrWriterFailed is returned by a writer which could not remove an incomplete record from the file.
	ErrWriterFailed = intwal.ErrWriterFailed

	// ErrWriterClosed is returned by a writer which was closed.
	ErrWriterClosed = intwal.ErrWriterClosed
)

// SegmentWriter splits records into fragments and appends them to any destination. It is the building block of
// Writer for callers which bring their own file abstraction and serialization.
type SegmentWriter = intsegment.SegmentWriter

// SegmentWriterFile is the destination a SegmentWriter appends to.
type SegmentWriterFile = intsegment.SegmentWriterFile

// NewSegmentWriterConfig is the configuration required for a call to NewSegmentWriter.
type NewSegmentWriterConfig = intsegment.NewSegmentWriterConfig

// NewSegmentWriter creates a SegmentWriter appending to the given destination.
var NewSegmentWriter = intsegment.NewSegmentWriter

// BlockSize is the size of a single block of the log file in bytes.
const BlockSize = intencoding.BlockSize
