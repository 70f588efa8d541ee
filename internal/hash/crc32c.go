package hash

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data. It guards encoded
// frame envelopes and S3 uploads.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}
