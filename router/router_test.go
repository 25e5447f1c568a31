package router

import (
	"reflect"
	"testing"
)

func TestCompileSegments(t *testing.T) {
	p, err := Compile("/users/{id}/posts/*tail")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := []Segment{
		{Kind: Const, Text: "users"},
		{Kind: Var, Text: "id"},
		{Kind: Const, Text: "posts"},
		{Kind: Tail, Text: "tail"},
	}
	if !reflect.DeepEqual(p.Segments(), want) {
		t.Fatalf("segments = %+v, want %+v", p.Segments(), want)
	}
}

func TestCompileTailConsumesRestOfTemplate(t *testing.T) {
	// '*' always terminates compilation immediately: everything after it,
	// slashes included, becomes the tail segment's name.
	p, err := Compile("/files/*rest/more")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := []Segment{
		{Kind: Const, Text: "files"},
		{Kind: Tail, Text: "rest/more"},
	}
	if !reflect.DeepEqual(p.Segments(), want) {
		t.Fatalf("segments = %+v, want %+v", p.Segments(), want)
	}
}

// TestMatchUsersPostsTail is the spec's scenario 4: register
// GET /users/{id}/posts/*tail and match it against
// /users/42/posts/2024/draft?sort=asc.
func TestMatchUsersPostsTail(t *testing.T) {
	p, err := Compile("/users/{id}/posts/*tail")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m, ok := Match(p, "/users/42/posts/2024/draft?sort=asc")
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Vars["id"] != "42" {
		t.Fatalf("id = %q, want 42", m.Vars["id"])
	}
	if m.Tail != "2024/draft?sort=asc" {
		t.Fatalf("tail = %q, want 2024/draft?sort=asc", m.Tail)
	}
	if m.Vars["tail"] != m.Tail {
		t.Fatalf("vars[tail] = %q, want it to mirror Tail", m.Vars["tail"])
	}
	_, rawQuery := SplitQuery(m.Tail)
	query := ParseQuery(rawQuery)
	if query["sort"] == nil || query["sort"][0] != "asc" {
		t.Fatalf("query = %+v, want sort=asc", query)
	}
}

func TestSplitQuery(t *testing.T) {
	path, query := SplitQuery("2024/draft?sort=asc")
	if path != "2024/draft" || query != "sort=asc" {
		t.Fatalf("path=%q query=%q", path, query)
	}
	path, query = SplitQuery("no-query-here")
	if path != "no-query-here" || query != "" {
		t.Fatalf("path=%q query=%q", path, query)
	}
}

func TestMatchConstOnly(t *testing.T) {
	p, _ := Compile("/health")
	if _, ok := Match(p, "/health"); !ok {
		t.Fatalf("expected /health to match")
	}
	if _, ok := Match(p, "/healthy"); ok {
		t.Fatalf("expected /healthy not to match")
	}
	if _, ok := Match(p, "/health/"); !ok {
		t.Fatalf("expected trailing slash to still match")
	}
}

func TestMatchConstFollowedByQuery(t *testing.T) {
	p, _ := Compile("/search")
	m, ok := Match(p, "/search?q=go")
	if !ok {
		t.Fatalf("expected match with query string")
	}
	if m.Tail != "?q=go" {
		t.Fatalf("tail = %q", m.Tail)
	}
}

func TestMatchVarStopsAtQueryOnlyWhenLast(t *testing.T) {
	// VAR is the last segment: a '?' right after it starts the query string.
	p, _ := Compile("/items/{id}")
	m, ok := Match(p, "/items/7?expand=true")
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Vars["id"] != "7" {
		t.Fatalf("id = %q", m.Vars["id"])
	}
	if m.Tail != "?expand=true" {
		t.Fatalf("tail = %q", m.Tail)
	}
}

func TestMatchVarFollowedByMoreSegmentsKeepsQuestionMarkInContent(t *testing.T) {
	// VAR is NOT last (a CONST segment follows): '?' is not a query
	// boundary here, so it's swallowed as literal segment content up to
	// the next '/'.
	p, _ := Compile("/items/{id}/edit")
	m, ok := Match(p, "/items/7?weird/edit")
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Vars["id"] != "7?weird" {
		t.Fatalf("id = %q, want 7?weird", m.Vars["id"])
	}
}

func TestMatchMissingRequiredSegmentFails(t *testing.T) {
	p, _ := Compile("/users/{id}")
	if _, ok := Match(p, "/users"); ok {
		t.Fatalf("expected no match when var segment is absent")
	}
}

func TestMatchTrailingExtraSegmentFails(t *testing.T) {
	p, _ := Compile("/users/{id}")
	if _, ok := Match(p, "/users/7/extra"); ok {
		t.Fatalf("expected no match with trailing unconsumed segment")
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	// A pattern with zero segments (compiled from "") only matches a URL
	// that does not itself begin with '/' — per oatpp's Pattern::match,
	// a leading '/' there is a non-match, not an implicit root match.
	p, _ := Compile("")
	if m, ok := Match(p, ""); !ok || len(m.Vars) != 0 {
		t.Fatalf("expected empty pattern to match empty path: ok=%v m=%+v", ok, m)
	}
	if _, ok := Match(p, "/"); ok {
		t.Fatalf("expected empty pattern not to match '/'")
	}
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery("?sort=asc&flag&sort=name")
	if len(q["sort"]) != 2 || q["sort"][0] != "asc" || q["sort"][1] != "name" {
		t.Fatalf("sort = %+v", q["sort"])
	}
	if len(q["flag"]) != 1 || q["flag"][0] != "" {
		t.Fatalf("flag = %+v", q["flag"])
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table := NewTable()
	specific, _ := Compile("/users/me")
	wildcard, _ := Compile("/users/{id}")
	table.Add("GET", specific, "specific")
	table.Add("GET", wildcard, "wildcard")

	route, _, ok := table.Find("GET", "/users/me")
	if !ok || route.Data != "specific" {
		t.Fatalf("expected registration-order first match 'specific', got %+v ok=%v", route, ok)
	}

	// Reversed registration order changes the winner: no longest-prefix
	// preference is implemented, by design.
	table2 := NewTable()
	table2.Add("GET", wildcard, "wildcard")
	table2.Add("GET", specific, "specific")
	route2, _, ok := table2.Find("GET", "/users/me")
	if !ok || route2.Data != "wildcard" {
		t.Fatalf("expected first-registered 'wildcard' to win, got %+v ok=%v", route2, ok)
	}
}
