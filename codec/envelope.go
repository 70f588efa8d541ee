package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/internal/hash"
)

// ErrCorrupt is returned when an envelope fails validation.
var ErrCorrupt = errors.New("codec: corrupt envelope")

const (
	magic   = "SFRM"
	version = 1
	// magic, version, compression, codec name length, checksum
	headerSize = 4 + 1 + 1 + 1 + 4
)

type encodeOptions struct {
	codec       Codec
	compression Compression
}

// Option configures MarshalFrame.
type Option func(*encodeOptions)

// WithCodec sets the payload codec. Default is GoJSON.
func WithCodec(c Codec) Option {
	return func(o *encodeOptions) { o.codec = c }
}

// WithCompression sets the payload compression. Default is ZSTD.
func WithCompression(c Compression) Option {
	return func(o *encodeOptions) { o.compression = c }
}

// MarshalFrame encodes f into a self-describing envelope.
func MarshalFrame(f *frame.Frame, optFns ...Option) ([]byte, error) {
	opts := encodeOptions{codec: Default, compression: CompressionZSTD}
	for _, fn := range optFns {
		fn(&opts)
	}
	w, err := encodeFrame(f)
	if err != nil {
		return nil, err
	}
	raw, err := opts.codec.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", opts.codec.Name(), err)
	}
	return Seal(raw, opts.codec.Name(), opts.compression)
}

// UnmarshalFrame decodes an envelope written by MarshalFrame.
func UnmarshalFrame(data []byte) (*frame.Frame, error) {
	raw, codecName, err := Open(data)
	if err != nil {
		return nil, err
	}
	c, ok := ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorrupt, codecName)
	}
	var w wireFrame
	if err := c.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return w.decode()
}

// Seal wraps an encoded payload in an envelope. The checksum covers the
// stored (possibly compressed) payload.
func Seal(payload []byte, codecName string, c Compression) ([]byte, error) {
	if len(codecName) > 255 {
		return nil, fmt.Errorf("codec name %q too long", codecName)
	}
	body, used, err := compress(payload, c)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, headerSize+len(codecName)+len(body))
	out = append(out, magic...)
	out = append(out, version, byte(used), byte(len(codecName)))
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(body))
	out = append(out, codecName...)
	return append(out, body...), nil
}

// Open validates an envelope and returns its payload and codec name.
func Open(data []byte) ([]byte, string, error) {
	if len(data) < headerSize || string(data[:4]) != magic {
		return nil, "", fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != version {
		return nil, "", fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}
	c := Compression(data[5])
	nameLen := int(data[6])
	sum := binary.LittleEndian.Uint32(data[7:11])
	if len(data) < headerSize+nameLen {
		return nil, "", fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(data[headerSize : headerSize+nameLen])
	body := data[headerSize+nameLen:]
	if hash.CRC32C(body) != sum {
		return nil, "", fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	payload, err := decompress(body, c)
	if err != nil {
		return nil, "", err
	}
	return payload, name, nil
}
