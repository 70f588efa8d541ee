// Package hash provides the hashing utilities used for integrity checks and
// composite-key lookup.
//
// # CRC32-Castagnoli (CRC32C)
//
// Encoded frame payloads carry a CRC32C checksum. Go's crc32 package uses
// hardware instructions (SSE4.2, ARM CRC) when available.
//
//	checksum := hash.CRC32C(data)
//
// # xxHash
//
// Hierarchical indexes hash the per-depth indexer tuple of each row with
// xxHash64 to find rows by composite label:
//
//	h := hash.Codes([]int{0, 3, 1})
package hash
