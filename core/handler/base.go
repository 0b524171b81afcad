package handler

import (
	"context"
	"net/http"
	"time"
)

// BaseContext is the default Context implementation.
// It delegates all context.Context methods to the request's context.
type BaseContext struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

// NewContext creates a BaseContext for the given request.
func NewContext(w http.ResponseWriter, r *http.Request) *BaseContext {
	return &BaseContext{w: w, r: r}
}

// Deadline delegates to r.Context().
func (c *BaseContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to r.Context().
func (c *BaseContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to r.Context().
func (c *BaseContext) Err() error {
	return c.r.Context().Err()
}

// Value delegates to r.Context().
func (c *BaseContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the *http.Request associated with the context.
func (c *BaseContext) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *BaseContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter by key.
func (c *BaseContext) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetParam sets a URL parameter value.
func (c *BaseContext) SetParam(key, value string) {
	if c.params == nil {
		c.params = make(map[string]string)
	}
	c.params[key] = value
}

// SetValue stores a request-scoped value. The request is replaced by a shallow
// copy carrying the new value, so later Request() calls observe it.
func (c *BaseContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
