// Package providers contains dependency injection providers for the Guftaho server.
package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second
)
