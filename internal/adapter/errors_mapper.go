package adapter

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody bounds how much of an error response is quoted back.
const maxErrorBody = 512

func mapHTTPError(status int, body string) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body = strings.TrimSpace(body)
	if body == "" {
		body = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrNetworkFailure, status, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrProtocol, status, body)
	}
}

// mapStreamedResponse checks the status of a response whose body has not been
// parsed by resty, quoting at most maxErrorBody bytes of it on failure.
func mapStreamedResponse(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body []byte
	if raw := resp.RawBody(); raw != nil {
		body, _ = io.ReadAll(io.LimitReader(raw, maxErrorBody))
	}
	return mapHTTPError(resp.StatusCode(), string(body))
}

// mapRequestError wraps a failure to perform the request at all.
func mapRequestError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrNetworkFailure, err)
}

// mapReadError classifies a failure while consuming a streamed body: I/O
// trouble is a network failure, anything else a malformed stream. A body cut
// off inside an element is reported by encoding/xml as a syntax error and
// counts as I/O trouble.
func mapReadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		isTruncatedXML(err) {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	return fmt.Errorf("%w: %v", ErrProtocol, err)
}

func isTruncatedXML(err error) bool {
	var syntaxErr *xml.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Msg == "unexpected EOF"
}
