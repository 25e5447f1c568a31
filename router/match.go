package router

import (
	"strings"

	"github.com/go-mizu/mizu/caret"
)

// MatchResult is the result of a successful Pattern match: every Var
// segment's binding, and the Tail capture if the pattern ends in one.
type MatchResult struct {
	Vars    map[string]string
	Tail    string
	HasTail bool
}

// atByte reports whether c's current byte equals b, without consuming it.
func atByte(c *caret.Caret, b byte) bool {
	return c.CanContinue() && c.Data()[c.Position()] == b
}

// findSysChar advances c to the next '/' or '?', or to the end of the
// buffer if neither occurs, mirroring oatpp's Pattern::findSysChar. It
// returns the byte found, or 0 at end of input.
func findSysChar(c *caret.Caret) byte {
	data := c.Data()
	for i := c.Position(); i < len(data); i++ {
		a := data[i]
		if a == '/' || a == '?' {
			c.SetPosition(i)
			return a
		}
	}
	c.SetPosition(len(data))
	return 0
}

// Match tests path against p, per spec.md §4.7's matching algorithm: walk
// the compiled segments against the URL, skipping leading '/', binding VAR
// captures and the TAIL capture (if any). A '?' encountered while matching a
// VAR or immediately following a CONST only begins the query string if the
// next segment is TAIL or the pattern is exhausted; otherwise it is just
// more segment content.
func Match(p *Pattern, path string) (*MatchResult, bool) {
	c := caret.NewFromString(path)

	if len(p.segments) == 0 {
		if c.ConsumeIf("/", true) {
			return nil, false
		}
		return &MatchResult{Vars: map[string]string{}}, true
	}

	vars := map[string]string{}
	var tail string
	hasTail := false

	for idx, seg := range p.segments {
		c.ConsumeIf("/", true)
		next := nextSegment(p.segments, idx)

		switch seg.Kind {
		case Const:
			if !c.ConsumeIf(seg.Text, true) {
				return nil, false
			}
			if c.CanContinue() && !atByte(c, '/') {
				if atByte(c, '?') && (next == nil || next.Kind == Tail) {
					tail = string(c.Data()[c.Position():])
					hasTail = true
					return &MatchResult{Vars: vars, Tail: tail, HasTail: hasTail}, true
				}
				return nil, false
			}

		case Tail:
			if c.Position() < len(c.Data()) {
				tail = string(c.Data()[c.Position():])
				hasTail = true
			}
			if seg.Text != "" {
				vars[seg.Text] = tail
			}
			return &MatchResult{Vars: vars, Tail: tail, HasTail: hasTail}, true

		case Var:
			if !c.CanContinue() {
				return nil, false
			}
			label := c.StartLabel()
			a := findSysChar(c)
			if a == '?' {
				if next == nil || next.Kind == Tail {
					vars[seg.Text] = label.String()
					tail = string(c.Data()[c.Position():])
					hasTail = true
					return &MatchResult{Vars: vars, Tail: tail, HasTail: hasTail}, true
				}
				c.FindByte('/')
			}
			vars[seg.Text] = label.String()
		}
	}

	c.ConsumeIf("/", true)
	if c.CanContinue() {
		return nil, false
	}

	return &MatchResult{Vars: vars, Tail: tail, HasTail: hasTail}, true
}

func nextSegment(segments []Segment, idx int) *Segment {
	if idx+1 >= len(segments) {
		return nil
	}
	return &segments[idx+1]
}

// SplitQuery separates a captured tail (or the whole path, for any caller
// holding a raw URL) into its path portion and its query string, dropping
// the '?' separator itself. A tail with no '?' has an empty query part.
func SplitQuery(tail string) (path, query string) {
	if i := strings.IndexByte(tail, '?'); i >= 0 {
		return tail[:i], tail[i+1:]
	}
	return tail, ""
}

// ParseQuery parses a query string of "key=value&key=value" pairs, per
// spec.md §4.7: a key with no '=' maps to an empty value, and repeated keys
// preserve all their values in order. The leading '?', if present, is
// stripped. No URL-decoding is performed.
func ParseQuery(raw string) map[string][]string {
	raw = strings.TrimPrefix(raw, "?")
	result := map[string][]string{}
	if raw == "" {
		return result
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		if i := strings.IndexByte(pair, '='); i >= 0 {
			result[pair[:i]] = append(result[pair[:i]], pair[i+1:])
		} else {
			result[pair] = append(result[pair], "")
		}
	}
	return result
}
