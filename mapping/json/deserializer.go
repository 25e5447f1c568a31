package json

import (
	"reflect"

	"github.com/go-mizu/mizu/caret"
	"github.com/go-mizu/mizu/mapping"
)

// deserializer walks RFC-8259 tokens off a caret and builds reflect.Values
// described by mapping.Descriptor, the mirror image of serializer. A null
// token is represented internally as an invalid (zero) reflect.Value so
// every read site can tell "null" apart from "zero value" without a second
// out-parameter.
type deserializer struct {
	registry *mapping.Registry
	cfg      DeserializerConfig
	c        *caret.Caret
}

func (ds *deserializer) fail(msg string, code int) error {
	return &DeserializeError{Message: msg, Code: code, Offset: ds.c.Position()}
}

// readValue is the entry point used by Mapper.Read for the top-level value;
// it adapts the result to t (which may be a pointer or value Go type).
func (ds *deserializer) readValue(d *mapping.Descriptor, t reflect.Type) (any, error) {
	v, err := ds.read(d, t)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		if t == nil {
			return nil, nil
		}
		return reflect.Zero(t).Interface(), nil
	}
	return v.Interface(), nil
}

// read is the recursive core: returns an invalid Value for JSON null.
func (ds *deserializer) read(d *mapping.Descriptor, goType reflect.Type) (reflect.Value, error) {
	c := ds.c
	c.SkipWhitespace()
	if !c.CanContinue() {
		return reflect.Value{}, ds.fail("unexpected end of input", ErrUnexpectedToken)
	}

	if ds.atLiteral("null") {
		ds.consumeLiteral("null")
		return reflect.Value{}, nil
	}

	if interp, ok := d.SelectInterpretation(ds.cfg.UseInterpretations); ok {
		iv, err := ds.read(interp.Target, interp.Target.Go)
		if err != nil {
			return reflect.Value{}, err
		}
		if !iv.IsValid() {
			return reflect.Value{}, nil
		}
		native, err := interp.From(iv.Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		return adaptToGoType(reflect.ValueOf(native), goType), nil
	}

	switch d.Cat {
	case mapping.Primitive:
		v, err := ds.readPrimitive(d)
		return adaptToGoType(v, goType), err
	case mapping.Enum:
		v, err := ds.readEnum(d)
		return adaptToGoType(v, goType), err
	case mapping.Object:
		return ds.readObject(d, goType)
	case mapping.List, mapping.Set:
		return ds.readList(d, goType)
	case mapping.Map:
		return ds.readMap(d, goType)
	case mapping.AnyCategory:
		v, err := ds.readAny()
		return adaptToGoType(v, goType), err
	default:
		return reflect.Value{}, ds.fail("unsupported type category", ErrUnexpectedToken)
	}
}

// adaptToGoType reshapes v (as produced by the category readers, always a
// plain value except Object which yields a pointer) into whatever goType a
// Field/element declares — the pointer-vs-value split a JSON null needs to
// distinguish from a present zero value.
func adaptToGoType(v reflect.Value, goType reflect.Type) reflect.Value {
	if !v.IsValid() || goType == nil {
		return v
	}
	if goType.Kind() == reflect.Ptr {
		if v.Kind() == reflect.Ptr {
			return v
		}
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		return ptr
	}
	if v.Kind() == reflect.Ptr {
		return v.Elem()
	}
	return v
}

func (ds *deserializer) peek() byte {
	return ds.c.Data()[ds.c.Position()]
}

func (ds *deserializer) atLiteral(lit string) bool {
	data := ds.c.Data()
	pos := ds.c.Position()
	if pos+len(lit) > len(data) {
		return false
	}
	return string(data[pos:pos+len(lit)]) == lit
}

func (ds *deserializer) consumeLiteral(lit string) {
	ds.c.SetPosition(ds.c.Position() + len(lit))
}

func (ds *deserializer) readPrimitive(d *mapping.Descriptor) (reflect.Value, error) {
	c := ds.c
	switch d.Go.Kind() {
	case reflect.Bool:
		if ds.atLiteral("true") {
			ds.consumeLiteral("true")
			return reflect.ValueOf(true), nil
		}
		if ds.atLiteral("false") {
			ds.consumeLiteral("false")
			return reflect.ValueOf(false), nil
		}
		return reflect.Value{}, ds.fail("expected boolean", ErrUnexpectedToken)
	case reflect.String:
		if c.Data()[c.Position()] != '"' {
			return reflect.Value{}, ds.fail("expected string", ErrUnexpectedToken)
		}
		s, err := readJSONString(c)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(d.Go), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, ok := c.ParseI64()
		if !ok {
			return reflect.Value{}, ds.numberError()
		}
		return reflect.ValueOf(v).Convert(d.Go), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, ok := c.ParseU64()
		if !ok {
			return reflect.Value{}, ds.numberError()
		}
		return reflect.ValueOf(v).Convert(d.Go), nil
	case reflect.Float32, reflect.Float64:
		v, ok := c.ParseF64()
		if !ok {
			return reflect.Value{}, ds.numberError()
		}
		return reflect.ValueOf(v).Convert(d.Go), nil
	default:
		return reflect.Value{}, ds.fail("unsupported primitive kind", ErrUnexpectedToken)
	}
}

func (ds *deserializer) numberError() error {
	if ds.c.ErrorCode() == caret.ErrNumberRange {
		return ds.fail(ds.c.Error(), ErrUnexpectedToken)
	}
	return ds.fail("invalid number", ErrUnexpectedToken)
}

func (ds *deserializer) readEnum(d *mapping.Descriptor) (reflect.Value, error) {
	c := ds.c
	if c.Data()[c.Position()] == '"' {
		name, err := readJSONString(c)
		if err != nil {
			return reflect.Value{}, err
		}
		for i, n := range d.EnumNames {
			if n == name {
				return reflect.ValueOf(d.EnumValues[i]).Convert(d.Go), nil
			}
		}
		return reflect.Value{}, ds.fail("unknown enum name "+name, ErrUnexpectedToken)
	}
	v, ok := c.ParseI64()
	if !ok {
		return reflect.Value{}, ds.numberError()
	}
	return reflect.ValueOf(v).Convert(d.Go), nil
}

func (ds *deserializer) readObject(d *mapping.Descriptor, goType reflect.Type) (reflect.Value, error) {
	c := ds.c
	if !c.ConsumeIf("{", true) {
		return reflect.Value{}, ds.fail("expected '{'", ErrUnexpectedToken)
	}
	instance := d.Create() // pointer to new struct
	seen := make(map[string]bool, len(d.Fields))

	c.SkipWhitespace()
	if c.ConsumeIf("}", true) {
		if err := ds.checkRequired(d, seen); err != nil {
			return reflect.Value{}, err
		}
		return adaptObject(instance, goType), nil
	}

	for {
		c.SkipWhitespace()
		if !c.CanContinue() || c.Data()[c.Position()] != '"' {
			return reflect.Value{}, ds.fail("expected field name", ErrUnexpectedToken)
		}
		key, err := readJSONString(c)
		if err != nil {
			return reflect.Value{}, err
		}
		c.SkipWhitespace()
		if !c.ConsumeIf(":", true) {
			return reflect.Value{}, ds.fail("expected ':'", ErrUnexpectedToken)
		}
		c.SkipWhitespace()

		field, ok := d.FieldByName(key)
		if !ok {
			if !ds.cfg.AllowUnknownFields {
				return reflect.Value{}, &DeserializeError{Message: "unknown field", Code: ErrUnknownField, Offset: c.Position(), Field: key}
			}
			if err := ds.skipValue(); err != nil {
				return reflect.Value{}, err
			}
		} else {
			seen[key] = true
			val, err := ds.read(field.Type, field.GoType)
			if err != nil {
				return reflect.Value{}, err
			}
			if !val.IsValid() {
				if field.Required {
					return reflect.Value{}, &DeserializeError{Message: "required field is null", Code: ErrRequiredFieldNull, Offset: c.Position(), Field: field.Name}
				}
			} else {
				mapping.SetField(instance, *field, val)
			}
		}

		c.SkipWhitespace()
		if c.ConsumeIf(",", true) {
			continue
		}
		if c.ConsumeIf("}", true) {
			break
		}
		return reflect.Value{}, ds.fail("expected ',' or '}'", ErrUnexpectedToken)
	}

	if err := ds.checkRequired(d, seen); err != nil {
		return reflect.Value{}, err
	}
	return adaptObject(instance, goType), nil
}

func (ds *deserializer) checkRequired(d *mapping.Descriptor, seen map[string]bool) error {
	for _, f := range d.Fields {
		if f.Required && !seen[f.Name] {
			return &DeserializeError{Message: "required field is missing", Code: ErrRequiredFieldNull, Offset: ds.c.Position(), Field: f.Name}
		}
	}
	return nil
}

// adaptObject turns the pointer Create() returns into whatever goType calls
// for: a pointer field keeps it, a value field dereferences it.
func adaptObject(instance reflect.Value, goType reflect.Type) reflect.Value {
	if goType != nil && goType.Kind() != reflect.Ptr {
		return instance.Elem()
	}
	return instance
}

func (ds *deserializer) readList(d *mapping.Descriptor, goType reflect.Type) (reflect.Value, error) {
	c := ds.c
	if !c.ConsumeIf("[", true) {
		return reflect.Value{}, ds.fail("expected '['", ErrUnexpectedToken)
	}
	targetType := goType
	if targetType == nil || (targetType.Kind() != reflect.Slice && targetType.Kind() != reflect.Array) {
		targetType = reflect.SliceOf(d.Elem.Go)
	}
	result := reflect.MakeSlice(reflect.SliceOf(targetType.Elem()), 0, 0)

	c.SkipWhitespace()
	if c.ConsumeIf("]", true) {
		return result, nil
	}

	for {
		v, err := ds.read(d.Elem, targetType.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		if !v.IsValid() {
			v = reflect.Zero(targetType.Elem())
		}
		result = reflect.Append(result, v)

		c.SkipWhitespace()
		if c.ConsumeIf(",", true) {
			continue
		}
		if c.ConsumeIf("]", true) {
			break
		}
		return reflect.Value{}, ds.fail("expected ',' or ']'", ErrUnexpectedToken)
	}
	return result, nil
}

func (ds *deserializer) readMap(d *mapping.Descriptor, goType reflect.Type) (reflect.Value, error) {
	c := ds.c
	if !c.ConsumeIf("{", true) {
		return reflect.Value{}, ds.fail("expected '{'", ErrUnexpectedToken)
	}
	targetType := goType
	if targetType == nil || targetType.Kind() != reflect.Map {
		targetType = reflect.MapOf(d.Key.Go, d.Elem.Go)
	}
	result := reflect.MakeMap(targetType)

	c.SkipWhitespace()
	if c.ConsumeIf("}", true) {
		return result, nil
	}

	for {
		c.SkipWhitespace()
		if !c.CanContinue() || c.Data()[c.Position()] != '"' {
			return reflect.Value{}, ds.fail("expected string map key", ErrUnexpectedToken)
		}
		key, err := readJSONString(c)
		if err != nil {
			return reflect.Value{}, err
		}
		c.SkipWhitespace()
		if !c.ConsumeIf(":", true) {
			return reflect.Value{}, ds.fail("expected ':'", ErrUnexpectedToken)
		}
		val, err := ds.read(d.Elem, targetType.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		if !val.IsValid() {
			val = reflect.Zero(targetType.Elem())
		}
		result.SetMapIndex(reflect.ValueOf(key).Convert(targetType.Key()), val)

		c.SkipWhitespace()
		if c.ConsumeIf(",", true) {
			continue
		}
		if c.ConsumeIf("}", true) {
			break
		}
		return reflect.Value{}, ds.fail("expected ',' or '}'", ErrUnexpectedToken)
	}
	return result, nil
}

// readAny dispatches on the first non-whitespace byte per spec.md §4.5's
// Any rule, wrapping the result as a mapping.Any carrying the descriptor of
// whatever primitive/container it actually parsed.
func (ds *deserializer) readAny() (reflect.Value, error) {
	c := ds.c
	c.SkipWhitespace()
	if !c.CanContinue() {
		return reflect.Value{}, ds.fail("unexpected end of input", ErrUnexpectedToken)
	}
	b := c.Data()[c.Position()]
	switch {
	case b == '"':
		d, _ := ds.registry.Describe(stringType)
		v, err := ds.readPrimitive(d)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(mapping.Any{Type: d, Value: v.Interface()}), nil
	case b == 't' || b == 'f':
		d, _ := ds.registry.Describe(boolType)
		v, err := ds.readPrimitive(d)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(mapping.Any{Type: d, Value: v.Interface()}), nil
	case b == '{':
		d, err := ds.registry.Describe(anyMapType)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := ds.readMap(d, anyMapType)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(mapping.Any{Type: d, Value: v.Interface()}), nil
	case b == '[':
		d, err := ds.registry.Describe(anyListType)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := ds.readList(d, anyListType)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(mapping.Any{Type: d, Value: v.Interface()}), nil
	case b == '-' || (b >= '0' && b <= '9'):
		return ds.readAnyNumber()
	default:
		return reflect.Value{}, ds.fail("unexpected token for Any", ErrUnexpectedToken)
	}
}

func (ds *deserializer) readAnyNumber() (reflect.Value, error) {
	c := ds.c
	start := c.Position()
	// Scan the number's raw text without committing to int/float grammar
	// yet, so we can decide Int64-vs-Float64 the way spec.md §6 requires:
	// a literal '.', 'e' or 'E' means Float64, otherwise Int64.
	i := start
	data := c.Data()
	n := len(data)
	if i < n && data[i] == '-' {
		i++
	}
	for i < n && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	isFloat := false
	if i < n && data[i] == '.' {
		isFloat = true
		i++
		for i < n && data[i] >= '0' && data[i] <= '9' {
			i++
		}
	}
	if i < n && (data[i] == 'e' || data[i] == 'E') {
		isFloat = true
		i++
		if i < n && (data[i] == '+' || data[i] == '-') {
			i++
		}
		for i < n && data[i] >= '0' && data[i] <= '9' {
			i++
		}
	}
	if i == start || (i == start+1 && data[start] == '-') {
		return reflect.Value{}, ds.fail("invalid number", ErrUnexpectedToken)
	}

	if isFloat {
		c.SetPosition(start)
		d, _ := ds.registry.Describe(float64Type)
		v, ok := c.ParseF64()
		if !ok {
			return reflect.Value{}, ds.numberError()
		}
		return reflect.ValueOf(mapping.Any{Type: d, Value: v}), nil
	}
	c.SetPosition(start)
	d, _ := ds.registry.Describe(int64Type)
	v, ok := c.ParseI64()
	if !ok {
		return reflect.Value{}, ds.numberError()
	}
	return reflect.ValueOf(mapping.Any{Type: d, Value: v}), nil
}

var (
	stringType  = reflect.TypeOf("")
	boolType    = reflect.TypeOf(false)
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
	anyMapType  = reflect.TypeOf(map[string]mapping.Any{})
	anyListType = reflect.TypeOf([]mapping.Any{})
)

// skipValue structurally skips the current value without building it, used
// for unknown object fields when DeserializerConfig.AllowUnknownFields is
// set. It honors string escaping so a '}' or ']' inside a string literal
// never miscounts nesting depth.
func (ds *deserializer) skipValue() error {
	c := ds.c
	c.SkipWhitespace()
	if !c.CanContinue() {
		return ds.fail("unexpected end of input", ErrUnexpectedToken)
	}
	data := c.Data()
	pos := c.Position()
	b := data[pos]

	switch b {
	case '"':
		_, err := readJSONString(c)
		return err
	case '{', '[':
		depth := 0
		inString := false
		i := pos
		for i < len(data) {
			ch := data[i]
			if inString {
				if ch == '\\' {
					i += 2
					continue
				}
				if ch == '"' {
					inString = false
				}
				i++
				continue
			}
			switch ch {
			case '"':
				inString = true
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
			i++
			if depth == 0 {
				break
			}
		}
		c.SetPosition(i)
		return nil
	default:
		i := pos
		for i < len(data) {
			switch data[i] {
			case ',', '}', ']', ' ', '\t', '\n', '\r':
				c.SetPosition(i)
				return nil
			}
			i++
		}
		c.SetPosition(i)
		return nil
	}
}

// readJSONString consumes a quoted JSON string starting at the caret's
// current '"' and returns its decoded (unescaped) value.
func readJSONString(c *caret.Caret) (string, error) {
	data := c.Data()
	pos := c.Position()
	if pos >= len(data) || data[pos] != '"' {
		return "", &DeserializeError{Message: "expected string", Code: ErrUnexpectedToken, Offset: pos}
	}
	var buf []byte
	i := pos + 1
	for i < len(data) {
		ch := data[i]
		if ch == '"' {
			c.SetPosition(i + 1)
			return string(buf), nil
		}
		if ch == '\\' {
			i++
			if i >= len(data) {
				break
			}
			switch data[i] {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case '/':
				buf = append(buf, '/')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'u':
				if i+4 >= len(data) {
					return "", &DeserializeError{Message: "truncated \\u escape", Code: ErrUnexpectedToken, Offset: i}
				}
				hi, ok := parseHex4(data[i+1 : i+5])
				if !ok {
					return "", &DeserializeError{Message: "invalid \\u escape", Code: ErrUnexpectedToken, Offset: i}
				}
				i += 4
				r := rune(hi)
				if hi >= 0xD800 && hi <= 0xDBFF && i+6 < len(data) && data[i+1] == '\\' && data[i+2] == 'u' {
					if lo, ok := parseHex4(data[i+3 : i+7]); ok && lo >= 0xDC00 && lo <= 0xDFFF {
						r = ((rune(hi) - 0xD800) << 10) | (rune(lo) - 0xDC00)
						r += 0x10000
						i += 6
					}
				}
				buf = appendRune(buf, r)
			default:
				return "", &DeserializeError{Message: "invalid escape sequence", Code: ErrUnexpectedToken, Offset: i}
			}
			i++
			continue
		}
		buf = append(buf, ch)
		i++
	}
	return "", &DeserializeError{Message: "unclosed string", Code: ErrUnexpectedToken, Offset: pos}
}

func parseHex4(b []byte) (uint16, bool) {
	var v uint16
	for _, c := range b {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

func appendRune(buf []byte, r rune) []byte {
	if r < 0x80 {
		return append(buf, byte(r))
	}
	tmp := make([]byte, 4)
	n := encodeRune(tmp, r)
	return append(buf, tmp[:n]...)
}

func encodeRune(dst []byte, r rune) int {
	switch {
	case r <= 0x7F:
		dst[0] = byte(r)
		return 1
	case r <= 0x7FF:
		dst[0] = 0xC0 | byte(r>>6)
		dst[1] = 0x80 | byte(r&0x3F)
		return 2
	case r <= 0xFFFF:
		dst[0] = 0xE0 | byte(r>>12)
		dst[1] = 0x80 | byte((r>>6)&0x3F)
		dst[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		dst[0] = 0xF0 | byte(r>>18)
		dst[1] = 0x80 | byte((r>>12)&0x3F)
		dst[2] = 0x80 | byte((r>>6)&0x3F)
		dst[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}
