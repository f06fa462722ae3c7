package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/models"
)

var (
	ErrMissingServerCount  = errors.New("final page carries no server count")
	ErrRevisionNotAdvanced = errors.New("page did not advance the revision")
	ErrPageLimitExceeded   = errors.New("page limit exceeded")
	ErrCountMismatch       = errors.New("local record count does not match the server")
	ErrCycleLock           = errors.New("could not acquire sync cycle lock")
	ErrUnknownEntitySpec   = errors.New("no entity spec registered for type")
	ErrDecodeRecord        = errors.New("record cannot be decoded")
)

// ErrorKind classifies a sync failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthorized
	KindNetworkFailure
	KindProtocolError
	KindStoreError
	KindLockAcquisition
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNetworkFailure:
		return "network_failure"
	case KindProtocolError:
		return "protocol_error"
	case KindStoreError:
		return "store_error"
	case KindLockAcquisition:
		return "lock_acquisition"
	default:
		return "unknown"
	}
}

// SyncError is the error type returned by the sync services. Op names the
// step that failed ("stream page", "apply", "save revision", ...).
type SyncError struct {
	Kind       ErrorKind
	EntityType models.EntityType
	Op         string
	Err        error
}

func (e *SyncError) Error() string {
	if e.EntityType == "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("sync %s: %s (%s): %v", e.EntityType, e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first [SyncError] in err's chain, or
// [KindUnknown].
func KindOf(err error) ErrorKind {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries a [SyncError] of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func newStoreError(t models.EntityType, op string, err error) *SyncError {
	return &SyncError{Kind: KindStoreError, EntityType: t, Op: op, Err: err}
}

func newProtocolError(t models.EntityType, op string, err error) *SyncError {
	return &SyncError{Kind: KindProtocolError, EntityType: t, Op: op, Err: err}
}

// classifyTransportError turns an error returned by the transport into a
// [SyncError]. A SyncError raised inside a stream callback is passed through
// as is.
func classifyTransportError(t models.EntityType, op string, err error) error {
	if err == nil {
		return nil
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}

	kind := KindProtocolError
	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		kind = KindUnauthorized
	case errors.Is(err, adapter.ErrNetworkFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		kind = KindNetworkFailure
	case errors.Is(err, adapter.ErrProtocol):
		kind = KindProtocolError
	}

	return &SyncError{Kind: kind, EntityType: t, Op: op, Err: err}
}
