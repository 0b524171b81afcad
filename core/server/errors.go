package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrUnknownEngine        = errors.New("unknown server engine")
	ErrServerAlreadyRunning = errors.New("server is already running")
)
