package encoding

import "errors"

var ErrRecordTypeUnsupported = errors.New("unsupported WAL record type")

// RecordType describes which part of a logical record a fragment carries.
type RecordType uint8

const (
	// RecordTypeZero is reserved. Zero filled regions of a file decode to it.
	RecordTypeZero RecordType = iota

	// RecordTypeFull marks a fragment which carries a complete record.
	RecordTypeFull

	// RecordTypeFirst marks the first fragment of a record which was split across blocks.
	RecordTypeFirst

	// RecordTypeMiddle marks all fragments between the first and the last one.
	RecordTypeMiddle

	// RecordTypeLast marks the final fragment of a record which was split across blocks.
	RecordTypeLast
)

// MaxRecordType is the highest record type value which is in use.
const MaxRecordType = RecordTypeLast

// RecordTypes provides a list of record types a writer emits. Helpful for writing tests and benchmarks which iterate
// over all possibilities.
var RecordTypes = []RecordType{
	RecordTypeFull,
	RecordTypeFirst,
	RecordTypeMiddle,
	RecordTypeLast,
}

// String returns a string representation of the record type.
func (r RecordType) String() string {
	switch r {
	case RecordTypeZero:
		return "zero"
	case RecordTypeFull:
		return "full"
	case RecordTypeFirst:
		return "first"
	case RecordTypeMiddle:
		return "middle"
	case RecordTypeLast:
		return "last"
	default:
		return "unknown"
	}
}

// Valid reports if the record type is one a writer emits.
func (r RecordType) Valid() bool {
	return RecordTypeFull <= r && r <= MaxRecordType
}

// RecordTypeFor returns the record type of a fragment depending on whether it is the first and/or the last fragment of
// its record.
func RecordTypeFor(first bool, last bool) RecordType {
	switch {
	case first && last:
		return RecordTypeFull
	case first:
		return RecordTypeFirst
	case last:
		return RecordTypeLast
	default:
		return RecordTypeMiddle
	}
}
