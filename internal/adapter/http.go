package adapter

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/utils"
	"github.com/MKhiriev/refsync/models"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	manifestPath = "/changes"
	registerPath = "/register"

	revisionParam = "Revision"
)

type httpTransport struct {
	client *utils.HTTPClient

	terminalID      string
	registrationKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

type registerRequest struct {
	XMLName    xml.Name `xml:"Register"`
	TerminalID string   `xml:"terminalId,attr"`
	Key        string   `xml:"key,attr,omitempty"`
}

// NewHTTPTransport constructs the HTTP/XML implementation of [Transport].
// It normalises adapterCfg.HTTPAddress into a base URL and bounds every call
// by adapterCfg.RequestTimeout.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPTransport(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (Transport, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpTransport{
		client:          utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		terminalID:      appCfg.TerminalID,
		registrationKey: appCfg.RegistrationKey,
		logger:          logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpTransport) setToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpTransport) currentToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// StreamUpdates implements [Transport]. It GETs endpoint with the Revision
// query parameter and decodes the body as it arrives.
func (h *httpTransport) StreamUpdates(ctx context.Context, endpoint string, since models.Revision, fn func(models.Item) error) (models.Page, error) {
	req := h.authedRequest(ctx).SetDoNotParseResponse(true)
	if !since.IsZero() {
		req.SetQueryParam(revisionParam, since.String())
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return models.Page{}, mapRequestError("stream updates request", err)
	}
	defer closeRaw(resp)

	if err = mapStreamedResponse(resp); err != nil {
		return models.Page{}, err
	}

	page, err := decodeUpdates(resp.RawBody(), fn)
	if err != nil {
		return page, fmt.Errorf("stream updates %s: %w", endpoint, err)
	}
	return page, nil
}

// StreamIDs implements [Transport].
func (h *httpTransport) StreamIDs(ctx context.Context, endpoint string, fn func(string) error) error {
	resp, err := h.authedRequest(ctx).SetDoNotParseResponse(true).Get(endpoint)
	if err != nil {
		return mapRequestError("stream ids request", err)
	}
	defer closeRaw(resp)

	if err = mapStreamedResponse(resp); err != nil {
		return err
	}

	if err = decodeIDs(resp.RawBody(), fn); err != nil {
		return fmt.Errorf("stream ids %s: %w", endpoint, err)
	}
	return nil
}

// GetManifest implements [Transport]. It GETs /changes.
func (h *httpTransport) GetManifest(ctx context.Context) (models.Manifest, error) {
	resp, err := h.authedRequest(ctx).Get(manifestPath)
	if err != nil {
		return nil, mapRequestError("get manifest request", err)
	}
	if err = mapHTTPError(resp.StatusCode(), string(resp.Body())); err != nil {
		return nil, err
	}

	manifest, unknown, err := decodeManifest(resp.Body())
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		h.logger.Warn().Strs("types", unknown).Msg("manifest lists unknown entity types, ignoring")
	}
	return manifest, nil
}

// Register implements [Transport]. It POSTs the terminal id to /register and
// keeps the bearer token from the Authorization response header. A token
// issued for a different terminal is rejected with [ErrUnauthorized].
func (h *httpTransport) Register(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/xml").
		SetBody(registerRequest{TerminalID: h.terminalID, Key: h.registrationKey}).
		Post(registerPath)
	if err != nil {
		return mapRequestError("register request", err)
	}
	if err = mapHTTPError(resp.StatusCode(), string(resp.Body())); err != nil {
		return err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("register parse bearer token: %w", err)
	}
	subject, err := parseSubjectFromJWT(token)
	if err != nil {
		return fmt.Errorf("register parse token subject: %w", err)
	}
	if subject != "" && subject != h.terminalID {
		return fmt.Errorf("%w: token issued for terminal %q", ErrUnauthorized, subject)
	}

	h.setToken(token)
	h.logger.Info().Str("terminal_id", h.terminalID).Msg("terminal re-registered")
	return nil
}

func (h *httpTransport) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.currentToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func closeRaw(resp *resty.Response) {
	if raw := resp.RawBody(); raw != nil {
		_ = raw.Close()
	}
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("%w: invalid authorization header", ErrProtocol)
	}
	return parts[1], nil
}

// parseSubjectFromJWT reads the "sub" claim without verifying the signature;
// the server remains the only party that validates its own tokens.
func parseSubjectFromJWT(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	return claims.GetSubject()
}
