package web

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-mizu/mizu/httpcore"
	mjson "github.com/go-mizu/mizu/mapping/json"
	"github.com/go-mizu/mizu/router"
)

// Dispatcher runs C12's dispatch sequence: match a route, extract and parse
// its declared parameters, decode the body (if any), invoke the handler,
// and convert the result through the response factory (C13).
type Dispatcher struct {
	Registry *Registry
	Mapper   mjson.ObjectMapper

	// RequestIDs, if set, assigns ctx.RequestID for every dispatched
	// request and echoes it back as the X-Request-Id response header.
	RequestIDs RequestIDGenerator

	// Metrics, if set, records a request count and latency observation per
	// dispatch (see metrics.go). Nil disables it.
	Metrics *Metrics

	// Logger, if set, receives one structured record per dispatch error.
	// Never a package-global — callers inject their own, same as the
	// teacher's Logger middleware.
	Logger *slog.Logger

	// ErrorHandler, if set, gets first refusal at rendering a
	// DispatchError; returning nil falls back to the default text/plain
	// rendering.
	ErrorHandler func(*DispatchError) *httpcore.Response
}

// NewDispatcher returns a Dispatcher over reg, decoding bodies with mapper.
func NewDispatcher(reg *Registry, mapper mjson.ObjectMapper) *Dispatcher {
	return &Dispatcher{Registry: reg, Mapper: mapper}
}

// Dispatch matches req against the registry's table and runs the full
// dispatch sequence, always returning a response (never a transport-level
// error) unless the response factory itself fails to materialize a body.
func (d *Dispatcher) Dispatch(req *httpcore.Request) (resp *httpcore.Response, err error) {
	start := time.Now()
	pattern := ""
	defer func() {
		if resp != nil {
			d.Metrics.observe(req.Method, pattern, strconv.Itoa(resp.Status.Code), time.Since(start))
		}
	}()
	table := d.Registry.Table()

	route, match, ok := table.Find(req.Method, req.Path)
	if !ok {
		if methods := table.Methods(req.Path); len(methods) > 0 {
			return d.renderError(&DispatchError{Code: ErrRouteNotFound, Status: httpcore.StatusMethodNotAllowed.Code, Message: "method not allowed"}), nil
		}
		return d.renderError(&DispatchError{Code: ErrRouteNotFound, Status: httpcore.StatusNotFound.Code, Message: "no matching route"}), nil
	}
	ep := route.Data.(*Endpoint)
	pattern = ep.Info.PatternText

	_, rawQuery := router.SplitQuery(match.Tail)
	queryValues := router.ParseQuery(rawQuery)

	ctx := &Context{
		Method:      req.Method,
		Path:        req.Path,
		Headers:     req.Headers,
		RawPathVars: match.Vars,
		RawQuery:    queryValues,
	}

	if de := d.bindPathParams(ctx, ep, match); de != nil {
		return d.renderError(de), nil
	}
	if de := d.bindQueryParams(ctx, ep, queryValues); de != nil {
		return d.renderError(de), nil
	}
	if de := d.bindHeaderParams(ctx, ep, req.Headers); de != nil {
		return d.renderError(de), nil
	}
	if ep.Info.Body != nil {
		if de := d.bindBody(ctx, ep, req.Body); de != nil {
			return d.renderError(de), nil
		}
	}

	if d.RequestIDs != nil {
		ctx.RequestID = d.RequestIDs()
	}

	result, err := d.invoke(ep.Handler, ctx)
	if err != nil {
		var de *DispatchError
		if errors.As(err, &de) {
			return d.renderError(de), nil
		}
		return d.renderError(&DispatchError{Code: ErrHandlerFailed, Status: httpcore.StatusInternalServerError.Code, Message: "handler error", Cause: err}), nil
	}

	resp, err = result.materialize()
	if err != nil {
		return nil, err
	}

	if ctx.RequestID != "" {
		resp.Headers.Set("X-Request-Id", ctx.RequestID)
	}

	return resp, nil
}

func (d *Dispatcher) bindPathParams(ctx *Context, ep *Endpoint, match *router.MatchResult) *DispatchError {
	if len(ep.Info.PathParams) == 0 {
		return nil
	}
	ctx.PathParams = make(map[string]any, len(ep.Info.PathParams))
	for _, p := range ep.Info.PathParams {
		raw, ok := match.Vars[p.Name]
		if !ok {
			if p.Required {
				return &DispatchError{Code: ErrMissingParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "missing path parameter"}
			}
			continue
		}
		val, err := p.Type.ParseString(raw)
		if err != nil {
			return &DispatchError{Code: ErrInvalidParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "invalid path parameter", Cause: err}
		}
		ctx.PathParams[p.Name] = val
	}
	return nil
}

func (d *Dispatcher) bindQueryParams(ctx *Context, ep *Endpoint, query map[string][]string) *DispatchError {
	if len(ep.Info.QueryParams) == 0 {
		return nil
	}
	ctx.QueryParams = make(map[string]any, len(ep.Info.QueryParams))
	for _, p := range ep.Info.QueryParams {
		values := query[p.Name]
		if len(values) == 0 {
			if p.Required {
				return &DispatchError{Code: ErrMissingParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "missing query parameter"}
			}
			continue
		}
		val, err := p.Type.ParseString(values[0])
		if err != nil {
			return &DispatchError{Code: ErrInvalidParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "invalid query parameter", Cause: err}
		}
		ctx.QueryParams[p.Name] = val
	}
	return nil
}

func (d *Dispatcher) bindHeaderParams(ctx *Context, ep *Endpoint, headers *httpcore.Headers) *DispatchError {
	if len(ep.Info.Headers) == 0 {
		return nil
	}
	ctx.HeaderParams = make(map[string]any, len(ep.Info.Headers))
	for _, p := range ep.Info.Headers {
		raw, ok := headers.Get(p.Name)
		if !ok {
			if p.Required {
				return &DispatchError{Code: ErrMissingParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "missing header"}
			}
			continue
		}
		val, err := p.Type.ParseString(raw)
		if err != nil {
			return &DispatchError{Code: ErrInvalidParam, Status: httpcore.StatusBadRequest.Code, Param: p.Name, Message: "invalid header", Cause: err}
		}
		ctx.HeaderParams[p.Name] = val
	}
	return nil
}

func (d *Dispatcher) bindBody(ctx *Context, ep *Endpoint, body io.Reader) *DispatchError {
	data, err := io.ReadAll(body)
	if err != nil {
		return &DispatchError{Code: ErrBodyDecode, Status: httpcore.StatusBadRequest.Code, Message: "failed to read body", Cause: err}
	}
	val, err := d.Mapper.Read(data, ep.Info.Body.Go)
	if err != nil {
		return &DispatchError{Code: ErrBodyDecode, Status: httpcore.StatusBadRequest.Code, Message: "failed to decode body", Cause: err}
	}
	ctx.Body = val
	return nil
}

func (d *Dispatcher) invoke(h Handler, ctx *Context) (result *Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &DispatchError{Code: ErrHandlerPanic, Status: httpcore.StatusInternalServerError.Code, Message: "handler panicked", Cause: panicError{rec}}
		}
	}()
	return h(ctx)
}

type panicError struct{ value any }

func (p panicError) Error() string { return "web: recovered panic" }

func (d *Dispatcher) renderError(de *DispatchError) *httpcore.Response {
	if d.Logger != nil {
		d.Logger.Error("dispatch error", "code", de.Code, "status", de.Status, "param", de.Param, "message", de.Message, "cause", de.Cause)
	}
	if d.ErrorHandler != nil {
		if resp := d.ErrorHandler(de); resp != nil {
			return resp
		}
	}
	resp, _ := Text(de.Status, de.Message).materialize()
	return resp
}
