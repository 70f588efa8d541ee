package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Codes hashes a tuple of non-negative integer codes.
func Codes(codes []int) uint64 {
	var buf [8]byte
	d := xxhash.New()
	for _, c := range codes {
		binary.LittleEndian.PutUint64(buf[:], uint64(c))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Row hashes the codes found at row across per-depth indexer arrays.
func Row(indexers [][]int, row int) uint64 {
	var buf [8]byte
	d := xxhash.New()
	for _, idx := range indexers {
		binary.LittleEndian.PutUint64(buf[:], uint64(idx[row]))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
