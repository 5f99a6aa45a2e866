package encoding

import (
	"encoding/binary"
	"math"
)

// Endian is the endianness the write-ahead log uses for serializing/deserializing integers to file.
var Endian = binary.LittleEndian

const (
	// BlockSize is the size of a single block of the log file. Fragment headers never cross a block boundary. The last
	// block of a file might be shorter.
	BlockSize = 32 * 1024

	// HeaderSize is the size of the header in front of every fragment: checksum (4 bytes), payload length (2 bytes)
	// and record type (1 byte).
	HeaderSize = 4 + 2 + 1

	// MaxFragmentLength is the biggest payload a single fragment can carry because of its two byte length field.
	MaxFragmentLength = math.MaxUint16
)
