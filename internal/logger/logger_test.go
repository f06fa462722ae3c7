package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_RoleAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "sync-agent")

	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "sync-agent", entry["role"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime)
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, "parent")

	child := parent.GetChildLogger()
	child.Info().Msg("from child")

	assert.Equal(t, "parent", decodeLine(t, &buf)["role"])
}

func TestWithCycle_TagsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "sync")

	ctx := l.WithCycle(context.Background(), "cycle-1")
	FromContext(ctx).Info().Msg("inside cycle")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "cycle-1", entry["cycle_id"])
	assert.Equal(t, "sync", entry["role"])
}

func TestFromContext_NoLoggerIsSafe(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info().Msg("goes nowhere")
}

func TestFromRequest_UsesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "http")

	r := httptest.NewRequest("GET", "/health", nil)
	r = r.WithContext(l.WithContext(r.Context()))

	FromRequest(r).Info().Msg("request")
	assert.Equal(t, "http", decodeLine(t, &buf)["role"])
}

func TestFromContextOr(t *testing.T) {
	var fallbackBuf, ctxBuf bytes.Buffer
	fallback := newLogger(&fallbackBuf, "fallback")

	got := FromContextOr(context.Background(), fallback)
	assert.Same(t, fallback, got)

	ctx := newLogger(&ctxBuf, "ctx").WithContext(context.Background())
	FromContextOr(ctx, fallback).Info().Msg("from ctx")

	assert.Empty(t, fallbackBuf.String())
	assert.Equal(t, "ctx", decodeLine(t, &ctxBuf)["role"])
}
