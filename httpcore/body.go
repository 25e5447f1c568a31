package httpcore

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/go-mizu/mizu/iostream"
)

// ChunkedReader decodes an RFC-7230 chunked transfer-coded body as an
// io.Reader: hex size, CRLF, chunk bytes, CRLF, repeating until a zero-size
// chunk, per spec.md §4.6. Chunk extensions are recognized and discarded;
// trailer headers are skipped, not exposed.
type ChunkedReader struct {
	src       *bufio.Reader
	remaining int64
	done      bool
	err       error
}

// NewChunkedReader wraps src, buffering internally to read chunk-size
// lines a byte at a time.
func NewChunkedReader(src io.Reader) *ChunkedReader {
	return &ChunkedReader{src: bufio.NewReader(src)}
}

func (r *ChunkedReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.done {
		return 0, io.EOF
	}
	if r.remaining == 0 {
		size, err := r.readChunkSize()
		if err != nil {
			r.err = err
			return 0, err
		}
		if size == 0 {
			if err := r.skipTrailer(); err != nil {
				r.err = err
				return 0, err
			}
			r.done = true
			return 0, io.EOF
		}
		r.remaining = size
	}

	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.src.Read(p)
	r.remaining -= int64(n)
	if r.remaining == 0 && err == nil {
		if cerr := r.consumeCRLF(); cerr != nil {
			err = cerr
		}
	}
	if err != nil && err != io.EOF {
		r.err = err
	}
	return n, err
}

func (r *ChunkedReader) readChunkSize() (int64, error) {
	line, err := r.src.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	size, err := strconv.ParseInt(strings.TrimSpace(line), 16, 64)
	if err != nil {
		return 0, &ParseError{Message: "malformed chunk size", Status: StatusBadRequest}
	}
	return size, nil
}

func (r *ChunkedReader) consumeCRLF() error {
	cr, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	lf, err := r.src.ReadByte()
	if err != nil {
		return err
	}
	if cr != '\r' || lf != '\n' {
		return &ParseError{Message: "malformed chunk terminator", Status: StatusBadRequest}
	}
	return nil
}

func (r *ChunkedReader) skipTrailer() error {
	for {
		line, err := r.src.ReadString('\n')
		if err != nil {
			return err
		}
		if line == "\r\n" || line == "\n" {
			return nil
		}
	}
}

// NewBodyReader resolves a message body's framing from its headers, per
// spec.md §4.6: chunked (Transfer-Encoding: chunked) wins over
// Content-Length; Content-Length reads exactly N bytes; otherwise, for a
// request, the body is absent, and for a response it reads until the
// underlying stream closes.
func NewBodyReader(headers *Headers, src io.Reader, isRequest bool) (io.Reader, iostream.Context) {
	if te, ok := headers.Get(HeaderTransferEncoding); ok && strings.EqualFold(strings.TrimSpace(te), ValueTransferChunked) {
		return NewChunkedReader(src), iostream.Context{Chunked: true}
	}
	if cl, ok := headers.Get(HeaderContentLength); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err == nil && n >= 0 {
			return io.LimitReader(src, n), iostream.Context{Finite: true, Length: n}
		}
	}
	if isRequest {
		return io.LimitReader(src, 0), iostream.Context{Finite: true, Length: 0}
	}
	return src, iostream.Context{Indefinite: true}
}

// ErrBodyTooLarge is returned by callers enforcing their own cap on top of
// NewBodyReader's framing (not produced internally).
var ErrBodyTooLarge = errors.New("httpcore: body exceeds configured limit")
