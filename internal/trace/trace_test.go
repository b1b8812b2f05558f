package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "")
	require.NoError(t, Init())
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "harvest.Fetch")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}

func TestSpansExportedToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(Config{Enabled: true, Writer: &buf, Synchronous: true}))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "harvest.Fetch")
	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	span.End()

	assert.Contains(t, buf.String(), `"Name":"harvest.Fetch"`)
	assert.Contains(t, buf.String(), DefaultServiceName)

	require.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	cfg := LoadConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
}
