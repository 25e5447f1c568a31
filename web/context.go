package web

import (
	"context"

	"github.com/go-mizu/mizu/httpcore"
)

// Context bundles a matched request's bound parameters and body for a
// Handler, per spec.md §4.8's dispatch sequence: by the time a Handler sees
// a Context, every declared path/query/header parameter has already been
// extracted and parsed to its declared type, and the body (if the endpoint
// declares one) has already been decoded.
type Context struct {
	ctx context.Context

	Method  string
	Path    string
	Headers *httpcore.Headers

	// RawPathVars and RawQuery hold the unparsed string captures, for
	// handlers that want something Info didn't declare.
	RawPathVars map[string]string
	RawQuery    map[string][]string

	// PathParams, QueryParams, and HeaderParams hold each declared
	// parameter's value already converted via its Descriptor.ParseString.
	PathParams   map[string]any
	QueryParams  map[string]any
	HeaderParams map[string]any

	// Body is the decoded request DTO, or nil if the endpoint declares no
	// body type.
	Body any

	// RequestID is the correlation id assigned to this request (see
	// requestid.go), empty if request-id assignment is disabled.
	RequestID string
}

// Context returns the request's cancellation context, defaulting to
// context.Background() if none was attached.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// WithContext returns a shallow copy of c carrying ctx.
func (c *Context) WithContext(ctx context.Context) *Context {
	c2 := *c
	c2.ctx = ctx
	return &c2
}
