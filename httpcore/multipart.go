package httpcore

import "io"

// Part is one labeled section of a multipart body: a header block plus the
// bytes that follow it up to the next boundary.
type Part struct {
	Headers *Headers
	Body    io.Reader
}

// PartReader treats an input stream as a sequence of labeled parts. This
// package exposes the seam only — the boundary-scanning state machine
// itself (oatpp's StatefulParser) is out of scope, per spec.md §1's
// multipart carve-out.
type PartReader interface {
	// NextPart returns the next part, or io.EOF once the terminal
	// boundary has been consumed.
	NextPart() (*Part, error)
}
