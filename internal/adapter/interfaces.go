// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport abstraction through which the sync
// engine talks to the authoritative reference-data server.
//
// The primary abstraction is [Transport], which decouples the sync services
// from the wire protocol. The package ships an HTTP/XML implementation
// ([NewHTTPTransport]) that streams update pages element by element instead
// of buffering whole responses.
//
// Every failure is reported as one of the sentinel values in errors.go
// ([ErrUnauthorized], [ErrNetworkFailure], [ErrProtocol]) so that callers can
// classify it with [errors.Is] without knowing the transport.
package adapter

import (
	"context"

	"github.com/MKhiriev/refsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport defines transport-agnostic access to the reference-data server.
type Transport interface {
	// StreamUpdates requests one page of changes from endpoint, starting after
	// since (omitted when since is empty), and calls fn for every record or
	// tombstone in stream order. It returns the page trailer once the
	// end-of-stream marker has been read.
	//
	// An error returned by fn stops the stream and is returned unchanged
	// (wrapped). Transport failures are wrapped in one of the package
	// sentinels.
	StreamUpdates(ctx context.Context, endpoint string, since models.Revision, fn func(models.Item) error) (models.Page, error)

	// StreamIDs streams the complete set of remote ids served by endpoint,
	// calling fn once per id. Pagination, if any, is handled internally; the
	// caller sees one logical set.
	StreamIDs(ctx context.Context, endpoint string, fn func(id string) error) error

	// GetManifest fetches the list of entity types with pending changes.
	// Unknown type tokens are ignored.
	GetManifest(ctx context.Context) (models.Manifest, error)

	// Register re-registers the terminal with the server and stores the
	// returned bearer token for subsequent requests.
	Register(ctx context.Context) error
}
