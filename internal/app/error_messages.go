// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// diagnostics endpoint of the terminal sync agent.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. Keeping them in one place keeps the wording consistent
// between routes.
package app

const (
	// MsgInvalidEntityType is returned when a resync request names an entity
	// type the terminal does not replicate.
	MsgInvalidEntityType = "invalid entity type"

	// MsgInvalidForceFlag is returned when the force query parameter is not a
	// boolean.
	MsgInvalidForceFlag = "invalid force flag"

	// MsgSyncInProgress is returned when a resync could not start because a
	// sync cycle is still running.
	MsgSyncInProgress = "sync cycle in progress, retry later"

	// MsgSyncFailed is returned when a manual resync finished with at least
	// one failed entity type. The body lists the per-type errors.
	MsgSyncFailed = "sync failed"

	// MsgSyncTriggered acknowledges a request to poll the server now.
	MsgSyncTriggered = "sync triggered"

	// MsgInternalServerError is returned when an unexpected failure occurs
	// that the caller cannot resolve.
	MsgInternalServerError = "internal server error"
)
