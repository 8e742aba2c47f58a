// Package workers runs the background jobs of the sync server.
//
// Every job implements Worker and is started by Workers, which blocks until
// the context is cancelled and all jobs have returned.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
