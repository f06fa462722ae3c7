// Package workers provides abstractions for managing and running
// background workers in the terminal sync agent.
// It defines the Worker interface and a Workers aggregate that starts the
// sync job and the diagnostics server together and stops them in reverse
// order.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run must not block: implementations spawn their own goroutines, which end
// when ctx is cancelled or Stop is called. Stop blocks until the worker has
// released its resources.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
