// Package codec encodes arena values for snapshots.
//
// Snapshots record the codec name in their header, so changing the codec of
// an existing snapshot stream is a breaking change: bytes written with one
// codec only decode with the same one.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case Gob{}.Name():
		return Gob{}, true
	default:
		return nil, false
	}
}
