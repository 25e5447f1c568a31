package json

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"unicode/utf8"

	"github.com/go-mizu/mizu/mapping"
)

// serializer walks a mapping.Descriptor/reflect.Value pair and writes an
// RFC-8259 document to w. It holds no state across top-level Write calls
// other than the stream and config, so one is allocated per call.
type serializer struct {
	registry *mapping.Registry
	cfg      SerializerConfig
	w        io.Writer
	err      error
}

func (s *serializer) writeValue(d *mapping.Descriptor, v reflect.Value) error {
	if !v.IsValid() {
		return s.writeRaw("null")
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return s.writeRaw("null")
		}
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if interp, ok := d.SelectInterpretation(s.cfg.UseInterpretations); ok {
		interpreted, err := interp.To(v.Interface())
		if err != nil {
			return fmt.Errorf("mapping/json: interpretation %q: %w", interp.Name, err)
		}
		return s.writeValue(interp.Target, reflect.ValueOf(interpreted))
	}

	switch d.Cat {
	case mapping.Primitive:
		return s.writePrimitive(v)
	case mapping.Enum:
		return s.writeEnum(d, v)
	case mapping.Object:
		return s.writeObject(d, v)
	case mapping.List, mapping.Set:
		return s.writeList(d, v)
	case mapping.Map:
		return s.writeMap(d, v)
	case mapping.AnyCategory:
		return s.writeAny(v)
	default:
		return fmt.Errorf("mapping/json: unsupported category %v", d.Cat)
	}
}

func (s *serializer) writeAny(v reflect.Value) error {
	if v.Kind() != reflect.Struct || v.Type() != reflect.TypeOf(mapping.Any{}) {
		// Interface carrying a concrete value directly (e.g. map[string]any
		// decoded by the Any deserializer): describe it on the fly.
		if !v.IsValid() {
			return s.writeRaw("null")
		}
		d, err := s.registry.DescribeValue(v.Interface())
		if err != nil {
			return err
		}
		return s.writeValue(d, v)
	}
	a := v.Interface().(mapping.Any)
	if a.Type == nil {
		return s.writeRaw("null")
	}
	return s.writeValue(a.Type, reflect.ValueOf(a.Value))
}

func (s *serializer) writePrimitive(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return s.writeRaw("true")
		}
		return s.writeRaw("false")
	case reflect.String:
		return s.writeString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.writeRaw(fmt.Sprintf("%d", v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return s.writeRaw(fmt.Sprintf("%d", v.Uint()))
	case reflect.Float32, reflect.Float64:
		format := s.cfg.FloatFormat
		if format == "" {
			format = "%.16g"
		}
		return s.writeRaw(fmt.Sprintf(format, v.Float()))
	default:
		return fmt.Errorf("mapping/json: unsupported primitive kind %v", v.Kind())
	}
}

func (s *serializer) writeEnum(d *mapping.Descriptor, v reflect.Value) error {
	val := v.Int()
	for i, ev := range d.EnumValues {
		if ev == val {
			return s.writeString(d.EnumNames[i])
		}
	}
	return s.writeRaw(fmt.Sprintf("%d", val))
}

func (s *serializer) writeObject(d *mapping.Descriptor, v reflect.Value) error {
	if err := s.writeRaw("{"); err != nil {
		return err
	}
	first := true
	for _, f := range d.Fields {
		fv := mapping.GetField(v, f)
		isNull := isNullValue(fv)
		if isNull && !s.cfg.IncludeNullObjectFields {
			continue
		}
		if !first {
			if err := s.writeRaw(","); err != nil {
				return err
			}
		}
		first = false
		if err := s.writeString(f.Name); err != nil {
			return err
		}
		if err := s.writeRaw(":"); err != nil {
			return err
		}
		if err := s.writeValue(f.Type, fv); err != nil {
			return err
		}
	}
	return s.writeRaw("}")
}

func isNullValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	default:
		return false
	}
}

func (s *serializer) writeList(d *mapping.Descriptor, v reflect.Value) error {
	if err := s.writeRaw("["); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			if err := s.writeRaw(","); err != nil {
				return err
			}
		}
		if err := s.writeValue(d.Elem, v.Index(i)); err != nil {
			return err
		}
	}
	return s.writeRaw("]")
}

func (s *serializer) writeMap(d *mapping.Descriptor, v reflect.Value) error {
	if d.Key.Cat != mapping.Primitive || d.Key.Go.Kind() != reflect.String {
		return &SerializeError{Message: "map key must be String", Code: ErrMapKeyNotString}
	}
	if err := s.writeRaw("{"); err != nil {
		return err
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for i, k := range keys {
		if i > 0 {
			if err := s.writeRaw(","); err != nil {
				return err
			}
		}
		if err := s.writeString(k.String()); err != nil {
			return err
		}
		if err := s.writeRaw(":"); err != nil {
			return err
		}
		if err := s.writeValue(d.Elem, v.MapIndex(k)); err != nil {
			return err
		}
	}
	return s.writeRaw("}")
}

const hexDigits = "0123456789abcdef"

// writeString escapes str per RFC-8259 and writes it as a quoted JSON
// string: the mandatory two-char escapes, control characters as \uXXXX,
// any non-BMP code point as a \uXXXX surrogate pair, and everything else
// (including ordinary printable text) written verbatim.
func (s *serializer) writeString(str string) error {
	buf := make([]byte, 0, len(str)+2)
	buf = append(buf, '"')
	for _, r := range str {
		switch r {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '/':
			buf = append(buf, '\\', '/')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			switch {
			case r < 0x20:
				buf = appendUnicodeEscape(buf, uint16(r))
			case r < 0x10000:
				buf = utf8.AppendRune(buf, r)
			default:
				r -= 0x10000
				hi := 0xD800 + (r >> 10)
				lo := 0xDC00 + (r & 0x3FF)
				buf = appendUnicodeEscape(buf, uint16(hi))
				buf = appendUnicodeEscape(buf, uint16(lo))
			}
		}
	}
	buf = append(buf, '"')
	return s.writeRaw(string(buf))
}

func appendUnicodeEscape(buf []byte, v uint16) []byte {
	buf = append(buf, '\\', 'u')
	buf = append(buf, hexDigits[(v>>12)&0xF], hexDigits[(v>>8)&0xF], hexDigits[(v>>4)&0xF], hexDigits[v&0xF])
	return buf
}

func (s *serializer) writeRaw(str string) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(s.w, str)
	if err != nil {
		s.err = err
	}
	return err
}
