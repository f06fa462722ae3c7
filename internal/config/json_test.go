package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")

	jsonBody := `{
		"app": {"terminal_id": "T-9", "registration_key": "k"},
		"adapter": {"http_address": "https://sync.example.com", "request_timeout": "45s"},
		"storage": {"db": {"dsn": "/data/refsync.db"}},
		"workers": {"sync_interval": "3m", "max_pages": 40},
		"health": {"http_address": "127.0.0.1:8081"}
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	cfg, err := parseJSON(p)
	require.NoError(t, err)

	assert.Equal(t, "T-9", cfg.App.TerminalID)
	assert.Equal(t, "k", cfg.App.RegistrationKey)
	assert.Equal(t, "https://sync.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/data/refsync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 3*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 40, cfg.Workers.MaxPages)
	assert.Equal(t, "127.0.0.1:8081", cfg.Health.HTTPAddress)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{not valid json"), 0o600))

	_, err := parseJSON(p)
	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalJSON([]byte(`"1h30m"`)))
	assert.Equal(t, 90*time.Minute, time.Duration(d))

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, time.Duration(d))

	assert.Error(t, d.UnmarshalJSON([]byte(`"later"`)))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(30 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"30s"`, string(b))
}
