package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_FallsBackToInfo(t *testing.T) {
	Init("not-a-level")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	Init("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestWithContext_AddsRequestFields(t *testing.T) {
	Init("info")
	var buf bytes.Buffer
	Log.SetOutput(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithProfileID(ctx, 42)
	WithContext(ctx).Info("settled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(42), entry["profile_id"])
	assert.Equal(t, "settled", entry["msg"])
	assert.NotContains(t, entry, "trace_id")
}
