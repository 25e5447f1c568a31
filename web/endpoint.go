// Package web implements the controller/endpoint registry, request
// dispatcher, and response factory (C11, C12, C13): it turns a matched
// router.Route into a type-checked call to a Handler, and a Handler's
// Response back into a wire-ready httpcore.Response.
package web

import (
	"github.com/go-mizu/mizu/mapping"
	"github.com/go-mizu/mizu/router"
)

// Param is one declared path, query, or header parameter on an endpoint:
// its wire name and the type it parses to via that type's primitive
// dispatcher (mapping.Descriptor.ParseString).
type Param struct {
	Name     string
	Type     *mapping.Descriptor
	Required bool
}

// ResponseSpec documents one declared response code for an endpoint. It is
// metadata only — Dispatch does not enforce that a handler's actual result
// matches a declared code.
type ResponseSpec struct {
	ContentType string
	Type        *mapping.Descriptor
}

// Info is an endpoint's declared shape, per spec.md §4.8: method, pattern,
// optional request-body type, and the path/query/header parameters a
// handler expects bound before it runs.
type Info struct {
	Method      string
	PatternText string
	Body        *mapping.Descriptor
	PathParams  []Param
	QueryParams []Param
	Headers     []Param
	Responses   map[int]ResponseSpec
}

// Handler runs once an Endpoint's pattern has matched and its declared
// parameters have been extracted and parsed into ctx.
type Handler func(ctx *Context) (*Response, error)

// Endpoint is B8's (method, pattern, handler, info) registration. Endpoints
// are registered once at startup and never mutated afterward.
type Endpoint struct {
	Info    Info
	Pattern *router.Pattern
	Handler Handler
}

// Registry binds compiled Endpoints into a router.Table, one per (method,
// pattern) registration, preserving the order Add was called in.
type Registry struct {
	table *router.Table
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{table: router.NewTable()}
}

// Add compiles ep.Info.PatternText and registers ep under ep.Info.Method.
func (r *Registry) Add(ep *Endpoint) error {
	pattern, err := router.Compile(ep.Info.PatternText)
	if err != nil {
		return err
	}
	ep.Pattern = pattern
	r.table.Add(ep.Info.Method, pattern, ep)
	return nil
}

// Table exposes the underlying router.Table, e.g. for building an Allow
// header from Table.Methods on a 405.
func (r *Registry) Table() *router.Table {
	return r.table
}
