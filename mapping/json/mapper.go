// Package json implements the object mapper interface (C6) and its JSON
// serializer/deserializer (C7, C8) on top of mapping's type descriptors and
// caret's zero-copy tokenizer. Nothing here is generated per-DTO: every
// value is walked through its *mapping.Descriptor at serialize/deserialize
// time, the way the spec's "generic serialization without per-type code"
// contract requires.
package json

import (
	"bytes"
	"io"
	"reflect"

	"github.com/go-mizu/mizu/caret"
	"github.com/go-mizu/mizu/mapping"
)

// ObjectMapper is the abstract serialize/deserialize contract (C6) any wire
// format driven by mapping.Descriptor can implement. The HTTP layer depends
// on this interface, not on the JSON types directly, so a different mapper
// (e.g. a future msgpack one) can be swapped in at the same seam.
type ObjectMapper interface {
	// ContentType names the wire format for a Content-Type header.
	ContentType() string
	// Write serializes v (described via the given registry) to w.
	Write(w io.Writer, v any) error
	// Read deserializes data into a new value of the given Go type.
	Read(data []byte, t reflect.Type) (any, error)
}

// SerializerConfig mirrors spec.md §6's JSON serializer option set.
type SerializerConfig struct {
	// IncludeNullObjectFields, when false, omits object fields whose value
	// is a null wrapper instead of emitting `"field":null`.
	IncludeNullObjectFields bool
	// FloatFormat is a printf-style verb applied to float64 values lacking
	// a more specific primitive formatter; defaults to "%.16g".
	FloatFormat string
	// UseInterpretations is the ordered list of interpretation names tried
	// against a type's Descriptor before falling back to its native form.
	UseInterpretations []string
}

// DefaultSerializerConfig matches the spec's defaults.
func DefaultSerializerConfig() SerializerConfig {
	return SerializerConfig{IncludeNullObjectFields: true, FloatFormat: "%.16g"}
}

// DeserializerConfig mirrors spec.md §6's JSON deserializer option set.
type DeserializerConfig struct {
	// AllowUnknownFields, when false, fails deserialization on any object
	// key not present in the target Descriptor's field list.
	AllowUnknownFields bool
	// UseInterpretations parallels SerializerConfig's field.
	UseInterpretations []string
}

// DefaultDeserializerConfig matches the spec's defaults.
func DefaultDeserializerConfig() DeserializerConfig {
	return DeserializerConfig{AllowUnknownFields: true}
}

// Mapper is the JSON ObjectMapper: RFC-8259 encode/decode driven by a
// mapping.Registry. A Mapper is safe for concurrent use once constructed —
// its config is immutable and the registry is its own synchronization unit.
type Mapper struct {
	Registry     *mapping.Registry
	Serializer   SerializerConfig
	Deserializer DeserializerConfig
}

// NewMapper returns a Mapper over registry with default serializer and
// deserializer options.
func NewMapper(registry *mapping.Registry) *Mapper {
	return &Mapper{
		Registry:     registry,
		Serializer:   DefaultSerializerConfig(),
		Deserializer: DefaultDeserializerConfig(),
	}
}

// ContentType implements ObjectMapper.
func (m *Mapper) ContentType() string { return "application/json" }

// Write implements ObjectMapper by serializing v to w.
func (m *Mapper) Write(w io.Writer, v any) error {
	d, err := m.Registry.DescribeValue(v)
	if err != nil {
		return err
	}
	s := &serializer{registry: m.Registry, cfg: m.Serializer, w: w}
	return s.writeValue(d, reflect.ValueOf(v))
}

// Marshal serializes v and returns the resulting bytes, the convenience form
// used by response bodies that need a Content-Length up front.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read implements ObjectMapper by deserializing data into a fresh value of
// type t.
func (m *Mapper) Read(data []byte, t reflect.Type) (any, error) {
	d, err := m.Registry.Describe(t)
	if err != nil {
		return nil, err
	}
	c := caret.New(data)
	ds := &deserializer{registry: m.Registry, cfg: m.Deserializer, c: c}
	out, err := ds.readValue(d, t)
	if err != nil {
		return nil, err
	}
	c.SkipWhitespace()
	return out, nil
}

// Unmarshal deserializes data into v, which must be a non-nil pointer.
func (m *Mapper) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &DeserializeError{Message: "Unmarshal target must be a non-nil pointer"}
	}
	out, err := m.Read(data, rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Elem().Set(reflect.ValueOf(out).Convert(rv.Type().Elem()))
	return nil
}

var _ ObjectMapper = (*Mapper)(nil)
