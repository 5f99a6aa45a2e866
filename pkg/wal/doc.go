// Package wal provides the implementation of a write-ahead log stored in a single file.
//
//   - The write-ahead log is made up of records, which contain arbitrary data of any length as a payload.
//   - The file is divided into blocks of 32 KiB. Records are split into fragments which never cross a block boundary.
//     Every fragment carries a checksum, its length and whether it is the full record or the first, a middle or the
//     last part of it.
//   - A record which was not written completely, because of an I/O error or a crash, is dropped when reading and cut
//     off before writing continues.
//   - Records are addressed by the offset of their first fragment in the file.
package wal
