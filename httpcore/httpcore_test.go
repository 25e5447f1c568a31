package httpcore

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-mizu/mizu/caret"
)

func TestParseRequestLine(t *testing.T) {
	c := caret.NewFromString("POST /login HTTP/1.1\r\nHost: example.com\r\n\r\n")
	line, err := ParseRequestLine(c)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if line.Method != "POST" || line.Path != "/login" || line.Protocol != "HTTP/1.1" {
		t.Fatalf("unexpected line: %+v", line)
	}
	headers, err := ParseHeaders(c)
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	v, ok := headers.Get("host")
	if !ok || v != "example.com" {
		t.Fatalf("expected Host header, got %q ok=%v", v, ok)
	}
}

func TestParseFullRequestScenario(t *testing.T) {
	raw := "POST /login HTTP/1.1\r\nHost: example.com\r\nContent-Length: 5\r\n\r\nhello"
	block, bodyOffset, complete, err := ReadHeaderBlock([]byte(raw))
	if err != nil || !complete {
		t.Fatalf("ReadHeaderBlock: complete=%v err=%v", complete, err)
	}
	c := caret.New(block)
	line, err := ParseRequestLine(c)
	if err != nil {
		t.Fatalf("line: %v", err)
	}
	headers, err := ParseHeaders(c)
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	body, _ := NewBodyReader(headers, bytes.NewReader([]byte(raw[bodyOffset:])), true)
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if line.Method != "POST" || line.Path != "/login" || string(got) != "hello" {
		t.Fatalf("unexpected result: %+v body=%q", line, got)
	}
}

func TestParseResponseLine(t *testing.T) {
	c := caret.NewFromString("HTTP/1.1 404 Not Found\r\n\r\n")
	line, err := ParseResponseLine(c)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if line.StatusCode != 404 || line.Reason != "Not Found" {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestParseResponseLineUnknownProtocol(t *testing.T) {
	c := caret.NewFromString("FTP/1.1 200 OK\r\n\r\n")
	_, err := ParseResponseLine(c)
	if err == nil {
		t.Fatalf("expected unknown protocol error")
	}
}

func TestHeadersGetAllPreservesDuplicates(t *testing.T) {
	h := NewHeaders()
	h.Add("X-Tag", "a")
	h.Add("x-tag", "b")
	if v, _ := h.Get("X-TAG"); v != "a" {
		t.Fatalf("Get should return first, got %q", v)
	}
	all := h.GetAll("X-Tag")
	if len(all) != 2 || all[0] != "a" || all[1] != "b" {
		t.Fatalf("GetAll mismatch: %v", all)
	}
}

func TestChunkedReaderDecodesChunks(t *testing.T) {
	raw := "4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n"
	r := NewChunkedReader(bytes.NewReader([]byte(raw)))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "Wikipedia" {
		t.Fatalf("want Wikipedia, got %q", got)
	}
}

func TestChunkedWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkedWriter(&buf)
	if _, err := cw.Write([]byte("Wiki")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cw.Write([]byte("pedia")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	r := NewChunkedReader(&buf)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "Wikipedia" {
		t.Fatalf("want Wikipedia, got %q", got)
	}
}

func TestWriteResponseHead(t *testing.T) {
	var buf bytes.Buffer
	headers := NewHeaders()
	headers.Add("Content-Type", "text/plain")
	resp := &Response{Protocol: "HTTP/1.1", Status: StatusFor(200), Headers: headers}
	if err := WriteResponseHead(&buf, resp); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}

func TestStatusForKnownAndUnknown(t *testing.T) {
	if StatusFor(404).Reason != "Not Found" {
		t.Fatalf("unexpected 404 reason")
	}
	if StatusFor(999).Reason != "Unknown" {
		t.Fatalf("expected fallback reason for unmapped code")
	}
}
