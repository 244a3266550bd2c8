package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerOutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(LevelDebug))

	logger.Info("credential stored", "user_id", "u1", "provider", "google")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "slingshot", entry["service"])
	assert.Equal(t, "credential stored", entry["message"])

	fields, ok := entry["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", fields["user_id"])
	assert.Equal(t, "google", fields["provider"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(LevelWarn))

	logger.Debug("should be dropped")
	logger.Info("should be dropped too")
	logger.Warn("kept")
	logger.Error("kept as well")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "kept")
}

func TestLoggerCorrelationIDFromFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf))

	logger.Info("request completed", "correlation_id", "abc-123", "status", 200)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc-123", entry["correlation_id"])

	fields := entry["fields"].(map[string]interface{})
	_, hasCorrelation := fields["correlation_id"]
	assert.False(t, hasCorrelation, "correlation_id should be promoted out of fields")
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf))

	ctx := WithCorrelationID(context.Background(), "ctx-corr-id")
	logger.InfoWithContext(ctx, "provider call", "operation", "runReport")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ctx-corr-id", entry["correlation_id"])
}

func TestWithServiceOption(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithService("slingshot-test"))

	logger.Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slingshot-test", entry["service"])
}

func TestGetCorrelationIDMissing(t *testing.T) {
	assert.Equal(t, "", GetCorrelationID(context.Background()))
	assert.NotEmpty(t, MustGetCorrelationID(context.Background()))
}
