package web

import (
	"bytes"
	"strconv"

	"github.com/go-mizu/mizu/httpcore"
	mjson "github.com/go-mizu/mizu/mapping/json"
)

// Response is a Handler's result before C13 turns it into a wire-ready
// httpcore.Response. It has exactly three construction paths, per spec.md
// §4.8: Empty (no body), Text (UTF-8 body, text/plain), and DTO (body from
// an ObjectMapper, Content-Type from the mapper).
type Response struct {
	Status int

	kind   responseKind
	text   string
	dto    any
	mapper mjson.ObjectMapper

	// ExtraHeaders are added to the response after the kind-specific
	// Content-Type (if any) is set, and can override it.
	ExtraHeaders map[string]string
}

type responseKind int

const (
	kindEmpty responseKind = iota
	kindText
	kindDTO
)

// Empty builds response(status): empty body, no Content-Type.
func Empty(status int) *Response {
	return &Response{Status: status, kind: kindEmpty}
}

// Text builds response(status, text): body is the UTF-8 bytes of text,
// Content-Type: text/plain.
func Text(status int, text string) *Response {
	return &Response{Status: status, kind: kindText, text: text}
}

// DTO builds response(status, dto, mapper): body is mapper.Write(dto),
// Content-Type is the mapper's declared content type.
func DTO(status int, dto any, mapper mjson.ObjectMapper) *Response {
	return &Response{Status: status, kind: kindDTO, dto: dto, mapper: mapper}
}

// WithHeader adds a header to the materialized response, returning r for
// chaining.
func (r *Response) WithHeader(name, value string) *Response {
	if r.ExtraHeaders == nil {
		r.ExtraHeaders = map[string]string{}
	}
	r.ExtraHeaders[name] = value
	return r
}

// materialize turns r into an httpcore.Response with a known body length
// and a matching Content-Length header. Bodies produced here
// are always fully buffered — the spec's "unknown-size streams use
// chunked" case applies to handlers that hand the dispatcher a raw
// io.Reader directly rather than going through the response factory, which
// this core does not do.
func (r *Response) materialize() (*httpcore.Response, error) {
	headers := httpcore.NewHeaders()
	var body []byte

	switch r.kind {
	case kindEmpty:
		// no body, no Content-Type

	case kindText:
		headers.Set(httpcore.HeaderContentType, "text/plain")
		body = []byte(r.text)

	case kindDTO:
		headers.Set(httpcore.HeaderContentType, r.mapper.ContentType())
		var buf bytes.Buffer
		if err := r.mapper.Write(&buf, r.dto); err != nil {
			return nil, err
		}
		body = buf.Bytes()
	}
	headers.Set(httpcore.HeaderContentLength, strconv.Itoa(len(body)))

	for name, value := range r.ExtraHeaders {
		headers.Set(name, value)
	}

	return &httpcore.Response{
		Status:   httpcore.StatusFor(r.Status),
		Headers:  headers,
		Body:     bytes.NewReader(body),
		BodySize: int64(len(body)),
	}, nil
}
