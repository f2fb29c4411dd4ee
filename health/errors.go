package health

import "errors"

var (
	// ErrCheckerNotFound is returned when a named checker is not registered.
	ErrCheckerNotFound = errors.New("health checker not found")

	// ErrCheckTimeout is returned when a check does not finish in time.
	ErrCheckTimeout = errors.New("health check timed out")
)
