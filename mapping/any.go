package mapping

import "reflect"

// Any pairs a value with its runtime type descriptor — the wrapper used
// wherever a field's declared type is "any value of any registered type".
// It is what the JSON deserializer produces for a target field typed Any
// when dispatching on the first non-whitespace byte of the input (see
// mapping/json).
type Any struct {
	Type  *Descriptor
	Value any
}

var anyType = reflect.TypeOf(Any{})

// NewAny wraps v together with its descriptor from r.
func NewAny(r *Registry, v any) (Any, error) {
	d, err := r.DescribeValue(v)
	if err != nil {
		return Any{}, err
	}
	return Any{Type: d, Value: v}, nil
}
