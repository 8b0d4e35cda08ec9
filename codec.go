package statefile

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// Codec translates between the stored value type and file bytes.
// Implementations must round-trip: Decode(Encode(v)) yields a value equal
// to v. Failures are reported, never swallowed.
type Codec[T any] interface {
	Encode(v *T) ([]byte, error)
	Decode(data []byte, v *T) error
}

// JSONCodec stores values as pretty-printed JSON with two-space indent.
// It is the default codec.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v *T) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec[T]) Decode(data []byte, v *T) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec stores values as YAML.
type YAMLCodec[T any] struct{}

func (YAMLCodec[T]) Encode(v *T) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec[T]) Decode(data []byte, v *T) error {
	return yaml.Unmarshal(data, v)
}
