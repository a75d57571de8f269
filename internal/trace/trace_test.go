package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledSetupLeavesSpansNoop(t *testing.T) {
	require.NoError(t, Setup(Config{}))
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "pipeline.Run")
	assert.False(t, span.SpanContext().IsValid())
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}

func TestSetupExportsSpansUntilShutdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Config{Enabled: true, Output: &buf}))
	require.True(t, Enabled())

	ctx, span := StartSpan(context.Background(), "pipeline.Sweep")
	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())
	assert.Contains(t, buf.String(), "pipeline.Sweep")
	assert.Contains(t, buf.String(), ServiceName)
}
