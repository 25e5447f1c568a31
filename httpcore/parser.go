package httpcore

import (
	"golang.org/x/net/http/httpguts"

	"github.com/go-mizu/mizu/caret"
)

// MaxHeaderBlockSize bounds how many bytes ReadHeaderBlock accepts before
// failing with ErrHeaderTooLarge (spec.md §6's 431 case).
const MaxHeaderBlockSize = 64 * 1024

// ParseRequestLine parses "METHOD SP PATH SP PROTOCOL CRLF" off c, per
// spec.md §4.6. Each component is delimited with a caret.Label and returned
// as a string copy of that span of the input.
func ParseRequestLine(c *caret.Caret) (RequestLine, error) {
	methodLabel := c.StartLabel()
	if !c.FindByte(' ') {
		return RequestLine{}, errMalformedStartLine()
	}
	methodLabel.End()
	c.SetPosition(c.Position() + 1)

	pathLabel := c.StartLabel()
	if !c.FindByte(' ') {
		return RequestLine{}, errMalformedStartLine()
	}
	pathLabel.End()
	c.SetPosition(c.Position() + 1)

	protoLabel := c.StartLabel()
	if !c.FindCRLF() {
		return RequestLine{}, errMalformedStartLine()
	}
	protoLabel.End()
	c.SkipCRLF()

	return RequestLine{
		Method:   methodLabel.String(),
		Path:     pathLabel.String(),
		Protocol: protoLabel.String(),
	}, nil
}

// ParseResponseLine parses "PROTOCOL SP STATUS-CODE SP REASON CRLF" off c,
// per spec.md §4.6. PROTOCOL must begin with "HTTP".
func ParseResponseLine(c *caret.Caret) (ResponseLine, error) {
	protoLabel := c.StartLabel()
	if !c.FindByte(' ') {
		return ResponseLine{}, errMalformedStartLine()
	}
	protoLabel.End()
	c.SetPosition(c.Position() + 1)

	protocol := protoLabel.String()
	if len(protocol) < 4 || protocol[:4] != "HTTP" {
		return ResponseLine{}, errUnknownProtocol()
	}

	code, ok := c.ParseI32()
	if !ok {
		return ResponseLine{}, errMalformedStartLine()
	}
	c.ConsumeIf(" ", true)

	reasonLabel := c.StartLabel()
	if !c.FindCRLF() {
		return ResponseLine{}, errMalformedStartLine()
	}
	reasonLabel.End()
	c.SkipCRLF()

	return ResponseLine{Protocol: protocol, StatusCode: int(code), Reason: reasonLabel.String()}, nil
}

// parseHeaderName scans a header field name up to ':' or ' ', matching
// oatpp's Protocol::parseHeaderName.
func parseHeaderName(c *caret.Caret) (string, bool) {
	label := c.StartLabel()
	data := c.Data()
	for i := c.Position(); i < len(data); i++ {
		if data[i] == ':' || data[i] == ' ' {
			c.SetPosition(i)
			label.End()
			return label.String(), true
		}
	}
	return "", false
}

// ParseHeaders repeats "NAME : OWS VALUE CRLF" until the blank line that
// terminates the header block, per spec.md §4.6. A malformed name (no ':')
// fails with a 400 ParseError; names are folded for lookup but stored in
// original case; duplicate names are preserved as separate entries.
func ParseHeaders(c *caret.Caret) (*Headers, error) {
	headers := NewHeaders()

	for !c.AtCRLF() {
		c.FindNotIn(" ")
		name, ok := parseHeaderName(c)
		if !ok {
			return nil, &ParseError{Message: "malformed header name", Status: StatusBadRequest}
		}
		c.FindNotIn(" ")
		if !c.ConsumeIf(":", true) {
			return nil, &ParseError{Message: "malformed header: missing ':'", Status: StatusBadRequest}
		}
		c.FindNotIn(" ")
		valueLabel := c.StartLabel()
		if !c.FindCRLF() {
			return nil, &ParseError{Message: "unterminated header line", Status: StatusBadRequest}
		}
		valueLabel.End()
		c.SkipCRLF()

		value := valueLabel.String()
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			return nil, &ParseError{Message: "invalid header field", Status: StatusBadRequest}
		}
		headers.Add(name, value)
	}
	c.SkipCRLF()

	return headers, nil
}

// ReadHeaderBlock consumes bytes from data starting at offset 0 looking for
// the blank-line terminator ("\r\n\r\n"), returning the header block
// including its terminating CRLFCRLF and the offset where the body begins.
// It fails with errHeaderTooLarge once more than MaxHeaderBlockSize bytes
// have been scanned without finding the terminator — the caller is
// expected to keep appending newly-read bytes and retry.
func ReadHeaderBlock(data []byte) (block []byte, bodyOffset int, complete bool, err error) {
	limit := len(data)
	if limit > MaxHeaderBlockSize {
		limit = MaxHeaderBlockSize
	}
	for i := 0; i+3 < limit; i++ {
		if data[i] == '\r' && data[i+1] == '\n' && data[i+2] == '\r' && data[i+3] == '\n' {
			return data[:i+4], i + 4, true, nil
		}
	}
	if len(data) > MaxHeaderBlockSize {
		return nil, 0, false, errHeaderTooLarge()
	}
	return nil, 0, false, nil
}
