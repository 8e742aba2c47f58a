package server

import "context"

// Server is the lifecycle contract shared by the transport servers and the
// aggregate that runs them.
type Server interface {
	// RunServer serves until Shutdown is called or the listener fails.
	RunServer()

	// Shutdown stops accepting requests and waits for in-flight ones until
	// ctx expires.
	Shutdown(ctx context.Context)
}
