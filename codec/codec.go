// Package codec encodes frames for persistence.
//
// A persisted frame is an envelope (magic, version, compression, codec
// name, checksum) around a codec-encoded payload. Changing the wire
// structs is a breaking change for persisted data.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name. Envelopes store the
// codec name so a reader can select it.
func ByName(name string) (Codec, bool) {
	switch name {
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
