package mapping

import "reflect"

// enumMeta is the name<->value bimap an enum-typed Go value carries. Unlike
// objects/lists/primitives, Go has no native enum kind, so callers register
// one explicitly before the type is first Described.
type enumMeta struct {
	names  []string
	values []int64
}

// RegisterEnum declares that t (expected to be a named int-kind type) is an
// Enum descriptor with the given ordered name/value entries. It must be
// called before the first Describe(t); Describe never infers enum-ness on
// its own, since an unregistered named-int type is just a Primitive.
func (r *Registry) RegisterEnum(t reflect.Type, entries map[string]int64, order []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[t]; ok {
		return errAlreadyDescribed(t)
	}
	if r.enumMeta == nil {
		r.enumMeta = make(map[reflect.Type]enumMeta)
	}
	names := make([]string, len(order))
	values := make([]int64, len(order))
	for i, name := range order {
		names[i] = name
		values[i] = entries[name]
	}
	r.enumMeta[t] = enumMeta{names: names, values: values}
	return nil
}

func errAlreadyDescribed(t reflect.Type) error {
	return &enumRegisteredTooLateError{t: t}
}

type enumRegisteredTooLateError struct{ t reflect.Type }

func (e *enumRegisteredTooLateError) Error() string {
	return "mapping: RegisterEnum called after " + e.t.String() + " was already described as a plain primitive"
}
