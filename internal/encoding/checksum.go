package encoding

import (
	"errors"
	"hash/crc32"
	"math/bits"
)

var ErrChecksumMismatch = errors.New("WAL fragment checksum mismatch")

// MaskDelta is added to the rotated checksum before it is stored. A plain CRC of a zero filled buffer is zero, which
// would make zero filled regions of a file look like valid fragments.
const MaskDelta uint32 = 0xa282ead8

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC-32C over the record type byte followed by the payload.
func Checksum(recordType RecordType, payload []byte) uint32 {
	crc := crc32.Update(0, castagnoliTable, []byte{byte(recordType)})
	return crc32.Update(crc, castagnoliTable, payload)
}

// Mask transforms a checksum into the representation stored on disk.
func Mask(crc uint32) uint32 {
	return bits.RotateLeft32(crc, -15) + MaskDelta
}

// Unmask reverses Mask.
func Unmask(masked uint32) uint32 {
	return bits.RotateLeft32(masked-MaskDelta, 15)
}

// TypeChecksums holds the checksum of every single record type byte. Extending these seeds over the payload gives the
// same result as Checksum without hashing the type byte for every fragment.
//
// The table is never modified after NewTypeChecksums returns and is therefore safe for concurrent reads.
type TypeChecksums [MaxRecordType + 1]uint32

// NewTypeChecksums computes the checksum seed for every record type.
func NewTypeChecksums() TypeChecksums {
	var result TypeChecksums
	for i := range result {
		result[i] = crc32.Update(0, castagnoliTable, []byte{byte(i)})
	}
	return result
}

// Extend returns the checksum over the record type and the payload, starting from the precomputed seed.
func (t *TypeChecksums) Extend(recordType RecordType, payload []byte) uint32 {
	return crc32.Update(t[recordType], castagnoliTable, payload)
}

// VerifyChecksum compares the masked checksum stored in a fragment header against the type and payload.
func VerifyChecksum(header FragmentHeader, payload []byte) error {
	if Unmask(header.Checksum) != Checksum(header.Type, payload) {
		return ErrChecksumMismatch
	}
	return nil
}
