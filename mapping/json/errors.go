package json

import "fmt"

// Error codes for this package's failures, matching spec.md §7's JSON error
// kinds (JSON_UNEXPECTED_TOKEN, JSON_UNKNOWN_FIELD, REQUIRED_FIELD_NULL,
// MAP_KEY_NOT_STRING).
const (
	ErrUnexpectedToken = iota
	ErrUnknownField
	ErrRequiredFieldNull
	ErrMapKeyNotString
)

// SerializeError is returned by Mapper.Write/Marshal on a structural
// failure (currently only a non-string map key).
type SerializeError struct {
	Message string
	Code    int
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("mapping/json: serialize: %s", e.Message)
}

// DeserializeError is returned by Mapper.Read/Unmarshal. Offset is the byte
// position in the input where the failure was detected, letting callers
// report precise diagnostics the way spec.md §7 requires ("surfaced with
// byte offset").
type DeserializeError struct {
	Message string
	Code    int
	Offset  int
	Field   string // set for ErrRequiredFieldNull / ErrUnknownField
}

func (e *DeserializeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("mapping/json: deserialize at byte %d: %s (field %q)", e.Offset, e.Message, e.Field)
	}
	return fmt.Sprintf("mapping/json: deserialize at byte %d: %s", e.Offset, e.Message)
}
