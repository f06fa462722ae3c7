// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

// Runner is the set of background workers an [App] starts and stops.
type Runner interface {
	Run(ctx context.Context)
	Stop()
}
