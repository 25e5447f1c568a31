package mapping

import (
	"fmt"
	"reflect"
	"strconv"
)

// primitiveDescriptor builds a Descriptor for Go's machine-native kinds:
// bool, string, the sized int/uint families, and float32/float64. It
// mirrors oatpp's Primitive dispatcher — parse-from-string and
// write-as-string, used by both the JSON mapper and the router/dispatcher
// when converting path and query parameters.
func primitiveDescriptor(t reflect.Type) (*Descriptor, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return &Descriptor{Go: t, Cat: Primitive,
			ParseString: func(s string) (any, error) { return strconv.ParseBool(s) },
			FormatValue: func(v any) string { return strconv.FormatBool(v.(bool)) },
		}, true
	case reflect.String:
		return &Descriptor{Go: t, Cat: Primitive,
			ParseString: func(s string) (any, error) { return s, nil },
			FormatValue: func(v any) string { return v.(string) },
		}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := t.Bits()
		return &Descriptor{Go: t, Cat: Primitive,
			ParseString: func(s string) (any, error) {
				v, err := strconv.ParseInt(s, 10, bits)
				if err != nil {
					return nil, err
				}
				return reflect.ValueOf(v).Convert(t).Interface(), nil
			},
			FormatValue: func(v any) string { return fmt.Sprintf("%d", reflect.ValueOf(v).Int()) },
		}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := t.Bits()
		return &Descriptor{Go: t, Cat: Primitive,
			ParseString: func(s string) (any, error) {
				v, err := strconv.ParseUint(s, 10, bits)
				if err != nil {
					return nil, err
				}
				return reflect.ValueOf(v).Convert(t).Interface(), nil
			},
			FormatValue: func(v any) string { return fmt.Sprintf("%d", reflect.ValueOf(v).Uint()) },
		}, true
	case reflect.Float32, reflect.Float64:
		bits := t.Bits()
		return &Descriptor{Go: t, Cat: Primitive,
			ParseString: func(s string) (any, error) {
				v, err := strconv.ParseFloat(s, bits)
				if err != nil {
					return nil, err
				}
				return reflect.ValueOf(v).Convert(t).Interface(), nil
			},
			FormatValue: func(v any) string {
				return strconv.FormatFloat(reflect.ValueOf(v).Float(), 'g', -1, bits)
			},
		}, true
	}
	return nil, false
}
