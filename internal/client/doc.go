// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the runtime of the terminal sync agent.
//
// It registers the terminal, starts the background workers (sync job and
// diagnostics server) and keeps them running until the process receives a
// stop signal.
package client
