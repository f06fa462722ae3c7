package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the terminal's
	// credentials (HTTP 401/403) or refuses a registration.
	ErrUnauthorized = errors.New("terminal unauthorized")

	// ErrNetworkFailure covers transient conditions: connection errors,
	// timeouts and 5xx/408/429 responses.
	ErrNetworkFailure = errors.New("network failure")

	// ErrProtocol is returned for malformed streams and unexpected
	// responses.
	ErrProtocol = errors.New("protocol error")
)
