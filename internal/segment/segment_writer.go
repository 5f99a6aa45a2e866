package segment

import (
	"errors"
	"fmt"
	"io"

	"github.com/backbone81/record-log/internal/encoding"
	"github.com/backbone81/record-log/internal/utils"
)

var ErrLengthNegative = errors.New("the WAL length must not be negative")

// SegmentWriterFile is the destination a SegmentWriter appends fragments to. Write appends bytes sequentially. Flush
// makes the appended bytes durably visible at the layer the file represents.
type SegmentWriterFile interface {
	io.Writer
	Flush() error
}

// SegmentWriter splits logical records into checksummed fragments and appends them to a block aligned log file.
//
// The log file is a sequence of blocks of encoding.BlockSize bytes. A fragment header never crosses a block boundary.
// When less than encoding.HeaderSize bytes are left in a block, they are filled with zeros and the next fragment
// starts at the beginning of the next block.
//
// Instances of SegmentWriter are NOT safe to use concurrently. You need to provide external synchronization.
type SegmentWriter struct {
	noCopy utils.NoCopy

	// The destination the writer appends to. The writer does not own the destination and never closes it.
	file SegmentWriterFile

	// The offset in bytes from the start of the current block. Always in the range [0, encoding.BlockSize).
	blockOffset int

	// The checksum of every record type byte, used as the seed for the fragment checksums.
	typeChecksums encoding.TypeChecksums

	// This is a temporary buffer for encoding the fragment header without allocating memory.
	headerBuffer [encoding.HeaderSize]byte
}

// NewSegmentWriterConfig is the configuration required for a call to NewSegmentWriter.
type NewSegmentWriterConfig struct {
	// Length is the number of bytes the destination already holds. It is zero for a new file. The caller is
	// responsible for positioning the destination at the end of those bytes.
	Length int64
}

// NewSegmentWriter creates a SegmentWriter appending to the given destination.
func NewSegmentWriter(file SegmentWriterFile, newSegmentWriterConfig NewSegmentWriterConfig) (*SegmentWriter, error) {
	if newSegmentWriterConfig.Length < 0 {
		return nil, ErrLengthNegative
	}
	return &SegmentWriter{
		file:          file,
		blockOffset:   int(newSegmentWriterConfig.Length % encoding.BlockSize),
		typeChecksums: encoding.NewTypeChecksums(),
	}, nil
}

// BlockOffset returns the offset in bytes from the start of the current block.
func (w *SegmentWriter) BlockOffset() int {
	return w.blockOffset
}

// trailer provides the zero bytes for filling up the end of a block which cannot hold another fragment header.
var trailer [encoding.HeaderSize - 1]byte

// AddRecord appends data as a single logical record. The record is split into as many fragments as necessary. Every
// fragment is written and flushed before the next one is started. An empty record results in a single fragment
// without payload.
//
// AddRecord stops with the first error. The fragments written before remain in the destination and form an incomplete
// record which readers will discard. The SegmentWriter must not be used after an error, as its block offset no longer
// matches the destination.
func (w *SegmentWriter) AddRecord(data []byte) error {
	AddRecordTotal.Inc()
	AddRecordBytes.Add(float64(len(data)))

	first := true
	for {
		leftover := encoding.BlockSize - w.blockOffset
		if leftover < encoding.HeaderSize {
			// The next header would cross the block boundary. Fill the rest of the block with zeros and switch to
			// the next block.
			w.blockOffset = 0
			if leftover > 0 {
				if _, err := w.file.Write(trailer[:leftover]); err != nil {
					FragmentFailureTotal.Inc()
					return fmt.Errorf("writing WAL block trailer: %w", err)
				}
				TrailerBytes.Add(float64(leftover))
			}
		}

		available := encoding.BlockSize - w.blockOffset - encoding.HeaderSize
		fragmentLength := min(len(data), available)
		last := fragmentLength == len(data)
		if err := w.emitPhysicalRecord(encoding.RecordTypeFor(first, last), data[:fragmentLength]); err != nil {
			return err
		}
		data = data[fragmentLength:]
		first = false
		if last {
			return nil
		}
	}
}

// emitPhysicalRecord writes a single fragment made up of header and payload and flushes the destination afterward.
func (w *SegmentWriter) emitPhysicalRecord(recordType encoding.RecordType, payload []byte) error {
	if len(payload) > encoding.MaxFragmentLength {
		panic(fmt.Sprintf("WAL fragment payload of %d bytes exceeds the length field", len(payload)))
	}
	if w.blockOffset+encoding.HeaderSize+len(payload) > encoding.BlockSize {
		panic(fmt.Sprintf("WAL fragment of %d bytes does not fit at block offset %d", len(payload), w.blockOffset))
	}

	err := w.writeFragment(encoding.NewFragmentHeader(&w.typeChecksums, recordType, payload), payload)

	// The offset moves forward even when writing failed. The writer is unusable after an error anyway.
	w.blockOffset += encoding.HeaderSize + len(payload)
	if w.blockOffset == encoding.BlockSize {
		w.blockOffset = 0
	}
	if err != nil {
		FragmentFailureTotal.Inc()
		return err
	}
	FragmentTotal.WithLabelValues(recordType.String()).Inc()
	return nil
}

func (w *SegmentWriter) writeFragment(header encoding.FragmentHeader, payload []byte) error {
	if err := encoding.WriteFragmentHeader(w.file, w.headerBuffer[:], header); err != nil {
		return err
	}
	if _, err := w.file.Write(payload); err != nil {
		return fmt.Errorf("writing WAL fragment payload: %w", err)
	}
	if err := w.file.Flush(); err != nil {
		return fmt.Errorf("flushing WAL fragment: %w", err)
	}
	return nil
}
