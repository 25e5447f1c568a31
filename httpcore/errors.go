package httpcore

import "fmt"

// Error codes matching spec.md §7's HTTP-specific kinds.
const (
	ErrMalformedStartLine = iota
	ErrUnknownProtocol
	ErrHeaderTooLarge
)

// ParseError is returned by every parsing entry point in this package. Code
// is one of the Err* constants above; Status is the response the
// dispatcher should send when this error escapes to the HTTP boundary
// (spec.md §7's propagation column).
type ParseError struct {
	Message string
	Code    int
	Status  Status
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("httpcore: %s", e.Message)
}

func errMalformedStartLine() *ParseError {
	return &ParseError{Message: "malformed start line", Code: ErrMalformedStartLine, Status: StatusBadRequest}
}

func errUnknownProtocol() *ParseError {
	return &ParseError{Message: "unknown protocol", Code: ErrUnknownProtocol, Status: StatusBadRequest}
}

func errHeaderTooLarge() *ParseError {
	return &ParseError{Message: "header block too large", Code: ErrHeaderTooLarge, Status: StatusRequestHeaderTooBig}
}
