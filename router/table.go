package router

// Route pairs a compiled Pattern with an opaque payload (web's Endpoint,
// typically) under one HTTP method.
type Route struct {
	Method  string
	Pattern *Pattern
	Data    any
}

// Table holds routes grouped by method, preserving registration order
// within each method. Routers are per-method per spec.md §4.7's tie-break
// rule: within a method, the first registered pattern that matches wins —
// there is no longest-prefix reordering.
type Table struct {
	routes map[string][]Route
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{routes: map[string][]Route{}}
}

// Add registers a route for method, in the order Add is called.
func (t *Table) Add(method string, pattern *Pattern, data any) {
	t.routes[method] = append(t.routes[method], Route{Method: method, Pattern: pattern, Data: data})
}

// Find returns the first registered route for method whose pattern matches
// path, along with the match bindings. Matching is a pure function of the
// table's contents and the (method, path) pair.
func (t *Table) Find(method, path string) (Route, *MatchResult, bool) {
	for _, route := range t.routes[method] {
		if m, ok := Match(route.Pattern, path); ok {
			return route, m, true
		}
	}
	return Route{}, nil, false
}

// Routes returns all routes registered for method, in registration order.
func (t *Table) Routes(method string) []Route {
	return t.routes[method]
}

// Methods reports the set of methods with at least one registered route
// whose pattern matches path, useful for building an Allow header on a 405.
func (t *Table) Methods(path string) []string {
	var methods []string
	for method, routes := range t.routes {
		for _, route := range routes {
			if _, ok := Match(route.Pattern, path); ok {
				methods = append(methods, method)
				break
			}
		}
	}
	return methods
}
