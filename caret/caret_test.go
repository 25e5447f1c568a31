package caret

import "testing"

func TestSkipWhitespaceAndParseI32(t *testing.T) {
	c := NewFromString("   -42abc")
	if !c.SkipWhitespace() {
		t.Fatalf("expected non-whitespace before end")
	}
	v, ok := c.ParseI32()
	if !ok || v != -42 {
		t.Fatalf("want -42, got %d ok=%v", v, ok)
	}
	if c.Position() != 6 {
		t.Fatalf("want pos 6, got %d", c.Position())
	}
	if c.HasError() {
		t.Fatalf("unexpected error: %s", c.Error())
	}

	before := c.Position()
	if _, ok := c.ParseI32(); ok {
		t.Fatalf("expected failure parsing 'abc' as integer")
	}
	if !c.HasError() {
		t.Fatalf("expected error state")
	}
	if c.Position() != before {
		t.Fatalf("failed parse must not advance pos")
	}
}

func TestParseI32Overflow(t *testing.T) {
	c := NewFromString("99999999999999999999")
	if _, ok := c.ParseI32(); ok {
		t.Fatalf("expected overflow failure")
	}
	if c.ErrorCode() != ErrNumberRange {
		t.Fatalf("want ErrNumberRange, got %d", c.ErrorCode())
	}
	if c.Position() != 0 {
		t.Fatalf("overflow must not advance pos, got %d", c.Position())
	}
}

func TestFindByteAndLabel(t *testing.T) {
	c := NewFromString("GET /login HTTP/1.1")
	lbl := c.StartLabel()
	if !c.FindByte(' ') {
		t.Fatalf("expected to find space")
	}
	lbl.End()
	if got := lbl.String(); got != "GET" {
		t.Fatalf("want GET, got %q", got)
	}
}

func TestConsumeIfAndWord(t *testing.T) {
	c2 := NewFromString("chunked;x")
	if c2.ConsumeIfWord("chunk") {
		t.Fatalf("expected ConsumeIfWord to fail on partial word match")
	}
	c3 := NewFromString("chunked;x")
	if !c3.ConsumeIfWord("chunked") {
		t.Fatalf("expected ConsumeIfWord to match full word")
	}
}

func TestParseEnclosed(t *testing.T) {
	c := NewFromString(`"hello \"world\""rest`)
	s, ok := c.ParseEnclosed('"', '"', '\\')
	if !ok {
		t.Fatalf("expected success: %s", c.Error())
	}
	if s != `hello \"world\"` {
		t.Fatalf("unexpected label: %q", s)
	}

	c2 := NewFromString(`"unclosed`)
	if _, ok := c2.ParseEnclosed('"', '"', '\\'); ok {
		t.Fatalf("expected ErrUnclosed")
	}
	if c2.ErrorCode() != ErrUnclosed {
		t.Fatalf("want ErrUnclosed, got %d", c2.ErrorCode())
	}
}

func TestFindInDictionary(t *testing.T) {
	c := NewFromString("falsey")
	idx := c.FindInDictionary([]string{"true", "false"})
	if idx != 1 {
		t.Fatalf("want index 1, got %d", idx)
	}
	if c.Position() != 5 {
		t.Fatalf("want pos 5, got %d", c.Position())
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewFromString("12x")
	snap := c.Snapshot()
	if _, ok := c.ParseI32(); !ok {
		t.Fatalf("expected parse ok")
	}
	c.Restore(snap)
	if c.Position() != 0 {
		t.Fatalf("restore should reset position")
	}
}

func TestCRLF(t *testing.T) {
	c := NewFromString("a: b\r\nc: d\r\n\r\n")
	if !c.FindCRLF() {
		t.Fatalf("expected to find CRLF")
	}
	if !c.AtCRLF() {
		t.Fatalf("expected to be at CRLF")
	}
	if !c.SkipCRLF() {
		t.Fatalf("expected to skip CRLF")
	}
}

func TestParseBoolCustomLiterals(t *testing.T) {
	c := NewFromString("yesno")
	v, ok := c.ParseBool("yes", "no")
	if !ok || !v {
		t.Fatalf("expected yes => true")
	}
}
