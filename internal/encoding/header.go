package encoding

import (
	"fmt"
	"io"
)

// FragmentHeader describes the header located in front of every fragment payload.
type FragmentHeader struct {
	// The masked CRC-32C over the record type and the payload. Encoded as four bytes.
	Checksum uint32

	// The length of the payload in bytes. Encoded as two bytes.
	Length uint16

	// Describes which part of a logical record the fragment carries. Encoded as a single byte.
	Type RecordType
}

// NewFragmentHeader creates the header for the given payload with the masked checksum computed from the seeds.
func NewFragmentHeader(typeChecksums *TypeChecksums, recordType RecordType, payload []byte) FragmentHeader {
	return FragmentHeader{
		Checksum: Mask(typeChecksums.Extend(recordType, payload)),
		Length:   uint16(len(payload)), //nolint:gosec // the caller guarantees MaxFragmentLength
		Type:     recordType,
	}
}

// IsZero reports if the header was decoded from zero filled bytes.
func (h FragmentHeader) IsZero() bool {
	return h == FragmentHeader{}
}

// EncodeFragmentHeader serializes the header into the first HeaderSize bytes of buffer.
func EncodeFragmentHeader(buffer []byte, header FragmentHeader) {
	Endian.PutUint32(buffer[0:4], header.Checksum)
	Endian.PutUint16(buffer[4:6], header.Length)
	buffer[6] = byte(header.Type)
}

// DecodeFragmentHeader deserializes the header from the first HeaderSize bytes of buffer.
func DecodeFragmentHeader(buffer []byte) FragmentHeader {
	return FragmentHeader{
		Checksum: Endian.Uint32(buffer[0:4]),
		Length:   Endian.Uint16(buffer[4:6]),
		Type:     RecordType(buffer[6]),
	}
}

// WriteFragmentHeader writes the fragment header to the writer.
// The buffer is required to avoid allocations and should be big enough to hold the full header temporarily.
func WriteFragmentHeader(writer io.Writer, buffer []byte, header FragmentHeader) error {
	EncodeFragmentHeader(buffer, header)
	if _, err := writer.Write(buffer[:HeaderSize]); err != nil {
		return headerWriteError(err)
	}
	return nil
}

// ReadFragmentHeader reads the fragment header from the reader.
// The buffer is required to avoid allocations and should be big enough to hold the full header temporarily.
func ReadFragmentHeader(reader io.Reader, buffer []byte) (FragmentHeader, error) {
	if _, err := io.ReadFull(reader, buffer[:HeaderSize]); err != nil {
		return FragmentHeader{}, headerReadError(err)
	}
	return DecodeFragmentHeader(buffer), nil
}

func headerWriteError(err error) error {
	return fmt.Errorf("writing WAL fragment header: %w", err)
}

func headerReadError(err error) error {
	return fmt.Errorf("reading WAL fragment header: %w", err)
}
