package static

import "errors"

var (
	// ErrNotRegularFile is returned for directories, devices, sockets and other
	// entries that must never be served.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNotHandled is returned by adapters whose host has no fallback when the
	// handler declines a request, e.g. because no root is configured.
	ErrNotHandled = errors.New("request not handled by static files handler")

	// ErrResponseStarted wraps failures that happened after the status line
	// was sent. Error handlers must not write another response.
	ErrResponseStarted = errors.New("response already started")

	ErrInvalidIndexFile = errors.New("invalid index file name")
	ErrInvalidRange     = errors.New("invalid byte range")
	ErrShortBody        = errors.New("file content ended before the announced length")
)
