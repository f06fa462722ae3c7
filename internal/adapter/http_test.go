// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T, srv *httptest.Server, terminalID string) *httpTransport {
	t.Helper()
	tr, err := NewHTTPTransport(
		config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 5 * time.Second},
		config.ClientApp{TerminalID: terminalID, RegistrationKey: "secret"},
		logger.Nop(),
	)
	require.NoError(t, err)
	return tr.(*httpTransport)
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject}).
		SignedString([]byte("server-key"))
	require.NoError(t, err)
	return token
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "http://localhost:8080"},
		{in: " https://sync.example.com/ ", want: "https://sync.example.com"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreamUpdates_SendsRevisionAndToken(t *testing.T) {
	var gotRevision, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees", r.URL.Path)
		gotRevision = r.URL.Query().Get("Revision")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<Updates><Record revision="18"><Field name="EmployeeID">E1</Field></Record><End serverCount="1"/></Updates>`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	tr.setToken("abc")

	var items []models.Item
	page, err := tr.StreamUpdates(context.Background(), "/employees", "17", func(it models.Item) error {
		items = append(items, it)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "17", gotRevision)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, 1, page.Items)
	assert.Equal(t, 1, page.ServerCount)
	require.Len(t, items, 1)
	assert.Equal(t, models.Revision("18"), items[0].ItemRevision())
}

func TestStreamUpdates_OmitsEmptyRevision(t *testing.T) {
	hasParam := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasParam = r.URL.Query()["Revision"]
		_, _ = io.WriteString(w, `<Updates><End serverCount="0"/></Updates>`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	_, err := tr.StreamUpdates(context.Background(), "/employees", "", func(models.Item) error { return nil })
	require.NoError(t, err)
	assert.False(t, hasParam)
}

func TestStreamUpdates_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrNetworkFailure},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			tr := newTestTransport(t, srv, "T-1")
			_, err := tr.StreamUpdates(context.Background(), "/employees", "", func(models.Item) error {
				t.Fatal("callback must not run")
				return nil
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStreamUpdates_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	tr := newTestTransport(t, srv, "T-1")
	srv.Close()

	_, err := tr.StreamUpdates(context.Background(), "/employees", "", func(models.Item) error { return nil })
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestStreamUpdates_CallbackErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<Updates><Tombstone id="A" revision="1"/><End/></Updates>`)
	}))
	defer srv.Close()

	storeErr := errors.New("constraint failed")
	tr := newTestTransport(t, srv, "T-1")
	_, err := tr.StreamUpdates(context.Background(), "/employees", "", func(models.Item) error { return storeErr })

	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrProtocol)
	assert.NotErrorIs(t, err, ErrNetworkFailure)
}

func TestStreamIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/ids", r.URL.Path)
		_, _ = io.WriteString(w, `<IDs><ID>E1</ID><ID>E2</ID></IDs>`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	var ids []string
	err := tr.StreamIDs(context.Background(), "/employees/ids", func(id string) error {
		ids = append(ids, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2"}, ids)
}

func TestGetManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/changes", r.URL.Path)
		_, _ = io.WriteString(w, `<Changes><Type>schedules</Type><Type>unknown_thing</Type></Changes>`)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	m, err := tr.GetManifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.NewManifest(models.Schedules), m)
}

func TestGetManifest_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	_, err := tr.GetManifest(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegister(t *testing.T) {
	token := signedToken(t, "T-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `terminalId="T-1"`)
		assert.Contains(t, string(body), `key="secret"`)
		w.Header().Set("Authorization", "Bearer "+token)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	require.NoError(t, tr.Register(context.Background()))
	assert.Equal(t, token, tr.currentToken())
}

func TestRegister_SubjectMismatch(t *testing.T) {
	token := signedToken(t, "T-2")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer "+token)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	err := tr.Register(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, tr.currentToken())
}

func TestRegister_MissingHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	err := tr.Register(context.Background())
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestRegister_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv, "T-1")
	assert.ErrorIs(t, tr.Register(context.Background()), ErrUnauthorized)
}

func TestParseBearerToken(t *testing.T) {
	got, err := parseBearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)

	for _, bad := range []string{"", "Bearer", "Basic xyz", "Bearer a b"} {
		_, err = parseBearerToken(bad)
		assert.ErrorIs(t, err, ErrProtocol, bad)
	}
}
