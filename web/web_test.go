package web

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/go-mizu/mizu/httpcore"
	"github.com/go-mizu/mizu/mapping"
	mjson "github.com/go-mizu/mizu/mapping/json"
)

type greeting struct {
	Message string `json:"message"`
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *mapping.Registry, *mjson.Mapper) {
	t.Helper()
	registry := mapping.NewRegistry()
	mapper := mjson.NewMapper(registry)
	reg := NewRegistry()

	idType, err := registry.Describe(reflect.TypeOf(""))
	if err != nil {
		t.Fatalf("describe string: %v", err)
	}

	ep := &Endpoint{
		Info: Info{
			Method:      "GET",
			PatternText: "/hello/{name}",
			PathParams:  []Param{{Name: "name", Type: idType, Required: true}},
		},
		Handler: func(ctx *Context) (*Response, error) {
			name, _ := ctx.PathParams["name"].(string)
			return DTO(200, greeting{Message: "hi " + name}, mapper), nil
		},
	}
	if err := reg.Add(ep); err != nil {
		t.Fatalf("register: %v", err)
	}

	return NewDispatcher(reg, mapper), registry, mapper
}

func TestDispatchMatchesAndRunsHandler(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	req := &httpcore.Request{Method: "GET", Path: "/hello/ada", Headers: httpcore.NewHeaders(), Body: bytes.NewReader(nil)}
	resp, err := d.Dispatch(req)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.Status.Code != 200 {
		t.Fatalf("status = %d", resp.Status.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"message":"hi ada"}` {
		t.Fatalf("body = %q", body)
	}
}

func TestDispatchNotFound(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	req := &httpcore.Request{Method: "GET", Path: "/nope", Headers: httpcore.NewHeaders(), Body: bytes.NewReader(nil)}
	resp, err := d.Dispatch(req)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.Status.Code != 404 {
		t.Fatalf("status = %d, want 404", resp.Status.Code)
	}
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	req := &httpcore.Request{Method: "POST", Path: "/hello/ada", Headers: httpcore.NewHeaders(), Body: bytes.NewReader(nil)}
	resp, err := d.Dispatch(req)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.Status.Code != 405 {
		t.Fatalf("status = %d, want 405", resp.Status.Code)
	}
}

func TestResponseEmptyAndText(t *testing.T) {
	resp, err := Empty(204).materialize()
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if resp.Status.Code != 204 || resp.BodySize != 0 {
		t.Fatalf("unexpected empty response: %+v", resp)
	}

	resp, err = Text(200, "hello").materialize()
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if ct, _ := resp.Headers.Get(httpcore.HeaderContentType); ct != "text/plain" {
		t.Fatalf("content-type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "hello" {
		t.Fatalf("body = %q", body)
	}
}

func TestDispatchHandlerPanicBecomes500(t *testing.T) {
	registry := mapping.NewRegistry()
	mapper := mjson.NewMapper(registry)
	reg := NewRegistry()
	ep := &Endpoint{
		Info: Info{Method: "GET", PatternText: "/boom"},
		Handler: func(ctx *Context) (*Response, error) {
			panic("kaboom")
		},
	}
	if err := reg.Add(ep); err != nil {
		t.Fatalf("register: %v", err)
	}
	d := NewDispatcher(reg, mapper)
	req := &httpcore.Request{Method: "GET", Path: "/boom", Headers: httpcore.NewHeaders(), Body: bytes.NewReader(nil)}
	resp, err := d.Dispatch(req)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.Status.Code != 500 {
		t.Fatalf("status = %d, want 500", resp.Status.Code)
	}
}
