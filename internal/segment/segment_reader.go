package segment

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/backbone81/record-log/internal/encoding"
	"github.com/backbone81/record-log/internal/utils"
)

var (
	ErrRecordNone             = errors.New("this is no WAL record")
	ErrTruncatedFragment      = errors.New("the WAL fragment is cut short by the end of the file")
	ErrTruncatedRecord        = errors.New("the WAL record is missing its last fragment")
	ErrFragmentLengthInvalid  = errors.New("the WAL fragment length exceeds the block")
	ErrReaderNotExhausted     = errors.New("the WAL needs to be read until the last record is reached")
	ErrCorruptBeforeEnd       = errors.New("the WAL is corrupt in front of valid fragments")
	ErrReaderFileNotWriteable = errors.New("the WAL file does not implement the interface for writing to it")
)

// SegmentReaderFile is an interface which needs to be implemented by the file to read from.
type SegmentReaderFile interface {
	io.ReadCloser
	Name() string
}

// SegmentReader reassembles the records a SegmentWriter produced. Fragments of incomplete records are dropped. Reading
// stops at the first fragment which is corrupt or cut short, as nothing behind it can be trusted.
//
// Instances of SegmentReader are NOT safe to use concurrently. You need to provide external synchronization.
type SegmentReader struct {
	noCopy utils.NoCopy

	// The file to read from.
	file SegmentReaderFile

	// The block currently being decoded. Only the first blockLength bytes are valid.
	block []byte

	// The offset in bytes of the current block from the start of the file.
	blockStart int64

	// The number of valid bytes in block. Only the last block of a file is shorter than encoding.BlockSize.
	blockLength int

	// The offset in bytes of the next fragment from the start of the current block.
	blockOffset int

	// Set when the current block is the last one of the file.
	eof bool

	// The data of the record being reassembled from multiple fragments.
	record []byte

	// The offset in bytes of the first fragment of the record being reassembled.
	recordOffset int64

	// Set while a First fragment was seen and the matching Last fragment is still missing.
	inRecord bool

	// The offset in bytes just behind the last complete record. This is where a writer continues.
	offset int64

	// The number of payload bytes dropped because they belong to incomplete records.
	droppedBytes int64

	// The value the segment reader returns. Only contains useful data if err is nil.
	value SegmentReaderValue

	// The error for the last operation. If this is nil, the content of value can be used.
	err error
}

// SegmentReaderValue is the value returned by the SegmentReader.
type SegmentReaderValue struct {
	// The offset in bytes of the first fragment of the record from the start of the file.
	Offset int64

	// The data of the record.
	Data []byte
}

// OpenSegment creates a new segment reader for the file path given as parameter. The file is opened for reading and
// writing to allow for a call to ToWriter after all records were read.
//
// To avoid resources leaking, the returned SegmentReader needs to be closed by calling Close().
func OpenSegment(filePath string) (*SegmentReader, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR, 0) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		return nil, fmt.Errorf("opening the WAL file %q: %w", filePath, err)
	}
	return NewSegmentReader(file), nil
}

// NewSegmentReader creates a SegmentReader from a file which is already open and positioned at its start.
func NewSegmentReader(file SegmentReaderFile) *SegmentReader {
	return &SegmentReader{
		file:  file,
		block: make([]byte, encoding.BlockSize),
	}
}

// FilePath returns the file path of the file this reader is reading from.
func (r *SegmentReader) FilePath() string {
	return r.file.Name()
}

// Offset returns the offset in bytes just behind the last complete record read.
func (r *SegmentReader) Offset() int64 {
	return r.offset
}

// DroppedBytes returns the number of payload bytes which were skipped because they belong to incomplete records.
func (r *SegmentReader) DroppedBytes() int64 {
	return r.droppedBytes
}

// Next reports if a record has been successfully read. When it returns true, Err() returns nil and Value() contains
// valid data. When it returns false, Err() contains the error and Value() contains invalid data. Once Next returned
// false, it keeps returning false.
func (r *SegmentReader) Next() bool {
	if r.err != nil {
		return false
	}
	if err := r.next(); err != nil {
		r.err = errors.Join(ErrRecordNone, err)
		return false
	}

	ReadRecordTotal.Inc()
	ReadRecordBytes.Add(float64(len(r.value.Data)))
	return true
}

func (r *SegmentReader) next() error {
	for {
		recordType, payload, fragmentOffset, err := r.nextFragment()
		if err != nil {
			if errors.Is(err, io.EOF) && r.inRecord {
				r.dropRecord()
				return ErrTruncatedRecord
			}
			return err
		}

		switch recordType {
		case encoding.RecordTypeFull:
			if r.inRecord {
				r.dropRecord()
			}
			r.value = SegmentReaderValue{
				Offset: fragmentOffset,
				Data:   payload,
			}
			r.offset = r.blockStart + int64(r.blockOffset)
			return nil

		case encoding.RecordTypeFirst:
			if r.inRecord {
				r.dropRecord()
			}
			r.record = append(r.record[:0], payload...)
			r.recordOffset = fragmentOffset
			r.inRecord = true

		case encoding.RecordTypeMiddle:
			if !r.inRecord {
				r.drop(len(payload))
				continue
			}
			r.record = append(r.record, payload...)

		case encoding.RecordTypeLast:
			if !r.inRecord {
				r.drop(len(payload))
				continue
			}
			r.record = append(r.record, payload...)
			r.inRecord = false
			r.value = SegmentReaderValue{
				Offset: r.recordOffset,
				Data:   r.record,
			}
			r.offset = r.blockStart + int64(r.blockOffset)
			return nil
		}
	}
}

// nextFragment returns the next fragment with a valid checksum. The payload points into the block buffer and is only
// valid until the next block is read.
func (r *SegmentReader) nextFragment() (encoding.RecordType, []byte, int64, error) {
	for {
		remaining := r.blockLength - r.blockOffset
		if remaining < encoding.HeaderSize {
			if !r.eof {
				// The rest of the block is the trailer.
				if err := r.readBlock(); err != nil {
					return 0, nil, 0, err
				}
				continue
			}
			if remaining == 0 {
				return 0, nil, 0, io.EOF
			}
			return 0, nil, 0, fmt.Errorf("fragment header at offset %d: %w", r.blockStart+int64(r.blockOffset), ErrTruncatedFragment)
		}

		fragmentOffset := r.blockStart + int64(r.blockOffset)
		header := encoding.DecodeFragmentHeader(r.block[r.blockOffset:])
		if header.IsZero() {
			// Zero filled space. Nothing is written behind it in the same block.
			r.blockOffset = r.blockLength
			continue
		}

		end := r.blockOffset + encoding.HeaderSize + int(header.Length)
		if r.blockLength < end {
			if r.eof && end <= encoding.BlockSize {
				return 0, nil, 0, fmt.Errorf("fragment at offset %d: %w", fragmentOffset, ErrTruncatedFragment)
			}
			return 0, nil, 0, fmt.Errorf("fragment at offset %d: %w", fragmentOffset, ErrFragmentLengthInvalid)
		}
		if !header.Type.Valid() {
			return 0, nil, 0, fmt.Errorf("fragment at offset %d with type %d: %w", fragmentOffset, header.Type, encoding.ErrRecordTypeUnsupported)
		}

		payload := r.block[r.blockOffset+encoding.HeaderSize : end]
		if err := encoding.VerifyChecksum(header, payload); err != nil {
			return 0, nil, 0, fmt.Errorf("fragment at offset %d: %w", fragmentOffset, err)
		}
		r.blockOffset = end
		return header.Type, payload, fragmentOffset, nil
	}
}

// readBlock replaces the current block with the next one from the file.
func (r *SegmentReader) readBlock() error {
	r.blockStart += int64(r.blockLength)
	r.blockOffset = 0
	n, err := io.ReadFull(r.file, r.block)
	r.blockLength = n
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		r.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading WAL block at offset %d: %w", r.blockStart, err)
	}
	return nil
}

// dropRecord discards the record being reassembled.
func (r *SegmentReader) dropRecord() {
	r.drop(len(r.record))
	r.record = r.record[:0]
	r.inRecord = false
}

func (r *SegmentReader) drop(length int) {
	r.droppedBytes += int64(length)
	DroppedBytes.Add(float64(length))
}

// Value returns the last record read from the file. The values are only valid after the first call to Next() and while
// Err() is nil. The data is overwritten by the next call to Next().
func (r *SegmentReader) Value() SegmentReaderValue {
	return r.value
}

// Err returns the error for the last call to Next().
// Returns ErrRecordNone when no record could be read. This indicates either a corrupt fragment, a file which was cut
// short or the end of the file.
// Returns io.EOF when the end of the file was reached cleanly. This error is still wrapped in ErrRecordNone but can be
// checked for separately.
func (r *SegmentReader) Err() error {
	return r.err
}

// ToWriter returns a FileSegmentWriter to append to the open file. You must have read all records of the file before
// you call this method. Otherwise, it will fail. Everything behind the last complete record is cut off before writing
// continues. After a call to ToWriter(), you cannot use the SegmentReader anymore.
//
// Only a tail which is cut short or corrupt is cut off. When reading stopped at corruption with valid fragments behind
// it, ToWriter fails with ErrCorruptBeforeEnd. When reading stopped with an I/O error, ToWriter fails with
// ErrReaderNotExhausted. The file is left untouched in both cases.
func (r *SegmentReader) ToWriter(syncPolicy SyncPolicy) (*FileSegmentWriter, error) {
	if !errors.Is(r.err, ErrRecordNone) {
		return nil, ErrReaderNotExhausted
	}

	appendFile, ok := r.file.(AppendFile)
	if !ok {
		return nil, ErrReaderFileNotWriteable
	}
	readSeeker, ok := r.file.(io.ReadSeeker)
	if !ok {
		return nil, ErrReaderFileNotWriteable
	}
	if err := r.checkTail(readSeeker); err != nil {
		return nil, err
	}

	if err := appendFile.Truncate(r.offset); err != nil {
		return nil, fmt.Errorf("cutting off the WAL file at offset %d: %w", r.offset, err)
	}
	if _, err := appendFile.Seek(r.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking the WAL file to offset %d: %w", r.offset, err)
	}

	fileSegmentWriter, err := NewFileSegmentWriter(appendFile, r.offset, syncPolicy)
	if err != nil {
		return nil, err
	}

	// Make sure this reader is not used for anything else afterward.
	*r = SegmentReader{}
	return fileSegmentWriter, nil
}

// checkTail makes sure reading stopped at the end of the valid data of the file and not in front of more records.
func (r *SegmentReader) checkTail(file io.ReadSeeker) error {
	switch {
	case errors.Is(r.err, io.EOF), errors.Is(r.err, ErrTruncatedFragment), errors.Is(r.err, ErrTruncatedRecord):
		return nil

	case errors.Is(r.err, encoding.ErrChecksumMismatch),
		errors.Is(r.err, encoding.ErrRecordTypeUnsupported),
		errors.Is(r.err, ErrFragmentLengthInvalid):
		found, err := r.validFragmentBehind(file)
		if err != nil {
			return errors.Join(ErrReaderNotExhausted, err)
		}
		if found {
			return errors.Join(ErrCorruptBeforeEnd, r.err)
		}
		return nil

	default:
		return errors.Join(ErrReaderNotExhausted, r.err)
	}
}

// validFragmentBehind reports if there is a valid fragment behind the corrupt one the reader stopped at. It checks the
// position right behind the corrupt fragment and the start of every following block.
func (r *SegmentReader) validFragmentBehind(file io.ReadSeeker) (bool, error) {
	header := encoding.DecodeFragmentHeader(r.block[r.blockOffset:r.blockLength])
	if end := r.blockOffset + encoding.HeaderSize + int(header.Length); end <= r.blockLength {
		if validFragment(r.block[end:r.blockLength]) {
			return true, nil
		}
	}

	block := make([]byte, encoding.BlockSize)
	for blockStart := r.blockStart + encoding.BlockSize; ; blockStart += encoding.BlockSize {
		if _, err := file.Seek(blockStart, io.SeekStart); err != nil {
			return false, fmt.Errorf("seeking the WAL file to offset %d: %w", blockStart, err)
		}
		n, err := io.ReadFull(file, block)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return false, fmt.Errorf("reading WAL block at offset %d: %w", blockStart, err)
		}
		if validFragment(block[:n]) {
			return true, nil
		}
		if n < encoding.BlockSize {
			return false, nil
		}
	}
}

// validFragment reports if the buffer starts with a complete fragment with a valid checksum.
func validFragment(buffer []byte) bool {
	if len(buffer) < encoding.HeaderSize {
		return false
	}
	header := encoding.DecodeFragmentHeader(buffer)
	if header.IsZero() || !header.Type.Valid() {
		return false
	}
	end := encoding.HeaderSize + int(header.Length)
	if len(buffer) < end {
		return false
	}
	return encoding.VerifyChecksum(header, buffer[encoding.HeaderSize:end]) == nil
}

// Close closes the file the SegmentReader is reading from.
func (r *SegmentReader) Close() error {
	if err := r.file.Close(); err != nil {
		return err
	}
	return nil
}
