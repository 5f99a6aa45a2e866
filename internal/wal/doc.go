// Package wal provides a write-ahead log stored in a single block aligned log file.
//
// The on-disk structure looks like this:
//
//   - The log file is a sequence of blocks of 32 KiB. Only the last block of the file might be shorter.
//   - Every record is split into one or more fragments. A fragment is made up of a seven byte header and the payload.
//     The header carries the masked CRC-32C of record type and payload, the payload length and the record type.
//   - A fragment header never crosses a block boundary. When less than seven bytes are left in a block, those bytes
//     are filled with zeros.
//   - The record type tells if a fragment carries a full record, or the first, a middle or the last part of it.
//
// A record which could not be written completely is removed from the end of the file again. When this fails as
// well, or when the process crashed in the middle of a record, the incomplete record is dropped by the Reader and cut
// off when the Reader is converted into a Writer.
package wal
