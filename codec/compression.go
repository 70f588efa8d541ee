package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm applied to an envelope payload.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot frames).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, good for cold frames).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

const (
	// lz4MaxRatio bounds the expansion of an LZ4 block.
	lz4MaxRatio = 255
	// zstdPrealloc caps the buffer reserved up front from the size prefix.
	zstdPrealloc = 64 << 20
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the compressed form of data prefixed with its
// uncompressed size. Incompressible LZ4 input falls back to no compression,
// which is reported through the returned Compression.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		buf := make([]byte, 4+lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf[4:], nil)
		if err != nil {
			return nil, c, err
		}
		if n == 0 {
			return data, CompressionNone, nil
		}
		binary.LittleEndian.PutUint32(buf, uint32(len(data)))
		return buf[:4+n], c, nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		out := binary.LittleEndian.AppendUint32(nil, uint32(len(data)))
		return enc.EncodeAll(data, out), c, nil
	default:
		return nil, c, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, c)
	}
}

func decompress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: compressed payload too small", ErrCorrupt)
	}
	size := binary.LittleEndian.Uint32(data)
	body := data[4:]
	switch c {
	case CompressionLZ4:
		if uint64(size) > uint64(len(body))*lz4MaxRatio {
			return nil, fmt.Errorf("%w: size %d exceeds lz4 bound for %d bytes", ErrCorrupt, size, len(body))
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, make([]byte, 0, min(int(size), zstdPrealloc)))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, c)
	}
}
