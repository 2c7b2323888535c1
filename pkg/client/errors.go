package client

import "errors"

var (
	// ErrServiceNotRunning is returned when nothing listens at the address
	ErrServiceNotRunning = errors.New("step service not running")

	// ErrPermissionDenied is returned when the socket cannot be opened
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the service
	ErrNotFound = errors.New("404 not found")
)
