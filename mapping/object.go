package mapping

import "reflect"

// FieldByName performs the Object dispatcher's get-by-name lookup used by
// the JSON deserializer when it sees a key — linear scan, since field
// counts are small and this keeps Field immutable after registration.
func (d *Descriptor) FieldByName(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// GetField reads a field's value off obj (obj must be the struct value or a
// pointer to it, addressable for Set to work).
func GetField(obj reflect.Value, f Field) reflect.Value {
	obj = indirect(obj)
	return obj.FieldByIndex(f.Index)
}

// SetField writes val into obj's field named by f. obj must be addressable
// (a pointer, or an addressable struct value).
func SetField(obj reflect.Value, f Field, val reflect.Value) {
	obj = indirect(obj)
	target := obj.FieldByIndex(f.Index)
	if target.Type() != val.Type() && val.Type().ConvertibleTo(target.Type()) {
		val = val.Convert(target.Type())
	}
	target.Set(val)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}
