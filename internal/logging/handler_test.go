package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &m), "line is not valid JSON: %s", line)
	return m
}

func TestJSONHandler_FixedKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Info("started")

	line := strings.TrimSuffix(buf.String(), "\n")
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, `{"timestamp":`), "fixed key order: %s", line)

	m := jsonLine(t, line)
	assert.Equal(t, "INFO", m["level"])
	assert.Equal(t, "svc", m["logger"])
	assert.Equal(t, "started", m["message"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, m["timestamp"])
}

func TestJSONHandler_RequestIDOmittedWhenAbsent(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").InfoContext(context.Background(), "no id here")

	m := jsonLine(t, buf.String())
	_, present := m["request_id"]
	assert.False(t, present, "request_id must be omitted entirely, not null")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestJSONHandler_RequestIDFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	ctx := WithRequestID(context.Background(), "ab12cd34")
	Logger("svc").InfoContext(ctx, "tagged")

	m := jsonLine(t, buf.String())
	assert.Equal(t, "ab12cd34", m["request_id"])
}

func TestJSONHandler_ExtrasMergedTopLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Info("checking", "email", "a@b.com")

	assert.Contains(t, buf.String(), `"email":"a@b.com"`)
	m := jsonLine(t, buf.String())
	assert.Equal(t, "a@b.com", m["email"], "extras are top-level keys, not nested")
}

func TestJSONHandler_UnserializableExtraStringified(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Info("odd value", "bad", make(chan int))

	m := jsonLine(t, buf.String())
	_, isString := m["bad"].(string)
	assert.True(t, isString, "unserializable values are stringified, not dropped records")
	assert.Equal(t, "odd value", m["message"])
}

func TestJSONHandler_ReservedExtraKeysDropped(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Info("real message", "message", "forged")

	m := jsonLine(t, buf.String())
	assert.Equal(t, "real message", m["message"])
}

func TestJSONHandler_ExceptionField(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Error("it broke", Exception(assert.AnError))

	m := jsonLine(t, buf.String())
	assert.Equal(t, "ERROR", m["level"])
	exc, ok := m["exception"].(string)
	require.True(t, ok)
	assert.Contains(t, exc, assert.AnError.Error())
	assert.Contains(t, exc, "goroutine", "exception carries stack text")
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("svc").Debug("dropped")
	assert.Empty(t, buf.String(), "DEBUG below configured INFO produces no output")

	Logger("svc").Info("kept")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1, "INFO produces exactly one line")
}

func TestWarningLevelName(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "debug", Format: "json"}, buf)

	Logger("svc").Warn("careful")

	m := jsonLine(t, buf.String())
	assert.Equal(t, "WARNING", m["level"])
}

func TestNoisyLoggerThreshold(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "json"}, buf)

	Logger("http.access").Info("GET /health 200")
	assert.Empty(t, buf.String(), "access chatter below WARNING is suppressed")

	Logger("http.access").Warn("GET /health 500")
	assert.NotEmpty(t, buf.String())
}

func TestTextHandler_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "text"}, buf)

	Logger("svc").Info("started")

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - svc - INFO - started\n$`)
	assert.Regexp(t, pattern, buf.String())
}

func TestTextHandler_OmitsRequestIDAndExtras(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "info", Format: "text"}, buf)

	ctx := WithRequestID(context.Background(), "ab12cd34")
	Logger("svc").InfoContext(ctx, "started", "email", "a@b.com")

	out := buf.String()
	assert.NotContains(t, out, "ab12cd34")
	assert.NotContains(t, out, "a@b.com")
}

func TestSetup_Idempotent(t *testing.T) {
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}

	SetupWriter(Config{Level: "info", Format: "json"}, first)
	SetupWriter(Config{Level: "info", Format: "text"}, second)

	Logger("svc").Info("only once")

	assert.Empty(t, first.String(), "re-setup fully replaces the previous destination")
	lines := strings.Count(second.String(), "\n")
	assert.Equal(t, 1, lines, "no duplicate lines per event after re-setup")
	assert.Contains(t, second.String(), " - svc - INFO - only once")
}

func TestSetup_FallbackDefaults(t *testing.T) {
	buf := &bytes.Buffer{}
	SetupWriter(Config{Level: "nonsense", Format: "xml"}, buf)

	Logger("svc").Debug("below fallback INFO")
	assert.Empty(t, buf.String())

	Logger("svc").Info("text fallback")
	assert.Contains(t, buf.String(), " - svc - INFO - text fallback")
	assert.False(t, strings.HasPrefix(buf.String(), "{"), "unknown format falls back to text")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}
