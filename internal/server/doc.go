// Package server runs the transports and background workers of the sync
// server until a termination signal arrives, then shuts them down
// gracefully.
package server
