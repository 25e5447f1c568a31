package httpcore

import (
	"fmt"
	"io"
)

// WriteResponseHead writes the status line and headers (including the
// terminating blank line) for resp to w. It does not write the body —
// callers stream that separately (directly, or through a
// ChunkedWriter for unknown-size bodies).
func WriteResponseHead(w io.Writer, resp *Response) error {
	protocol := resp.Protocol
	if protocol == "" {
		protocol = "HTTP/1.1"
	}
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", protocol, resp.Status.Code, resp.Status.Reason); err != nil {
		return err
	}
	var headErr error
	resp.Headers.Range(func(name, value string) {
		if headErr != nil {
			return
		}
		_, headErr = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	if headErr != nil {
		return headErr
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// WriteRequestHead writes the request line and headers for req to w.
func WriteRequestHead(w io.Writer, req *Request) error {
	protocol := req.Protocol
	if protocol == "" {
		protocol = "HTTP/1.1"
	}
	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", req.Method, req.Path, protocol); err != nil {
		return err
	}
	var headErr error
	req.Headers.Range(func(name, value string) {
		if headErr != nil {
			return
		}
		_, headErr = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	if headErr != nil {
		return headErr
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// ChunkedWriter encodes writes as RFC-7230 chunks: hex size, CRLF, data,
// CRLF. Close writes the terminating zero-size chunk; callers must call it
// exactly once after the last Write.
type ChunkedWriter struct {
	w io.Writer
}

// NewChunkedWriter wraps w to chunk-encode everything written through it.
func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

func (c *ChunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(c.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := io.WriteString(c.w, "\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Close writes the terminating zero-size chunk and an empty trailer block.
func (c *ChunkedWriter) Close() error {
	_, err := io.WriteString(c.w, "0\r\n\r\n")
	return err
}
