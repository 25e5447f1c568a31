package httpcore

import "io"

// RequestLine is B6's request start line: METHOD SP PATH SP PROTOCOL CRLF.
type RequestLine struct {
	Method   string
	Path     string
	Protocol string
}

// ResponseLine is B6's response start line: PROTOCOL SP CODE SP REASON CRLF.
type ResponseLine struct {
	Protocol   string
	StatusCode int
	Reason     string
}

// Request is B6's parsed HTTP request: start line, headers, and a body
// stream whose framing (chunked/length/absent) has already been resolved
// by NewBodyReader.
type Request struct {
	Method   string
	Path     string
	Protocol string
	Headers  *Headers
	Body     io.Reader
}

// Response is B6's outgoing HTTP response.
type Response struct {
	Protocol string
	Status   Status
	Headers  *Headers
	Body     io.Reader
	// BodySize is the known length of Body, or -1 when unknown.
	// WriteResponseHead does not read it; the caller writing the body picks
	// the framing (a ChunkedWriter for an unknown length).
	BodySize int64
}
