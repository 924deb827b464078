package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextDefaultsToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
	//nolint:staticcheck // nil context is tolerated
	require.NotNil(t, FromContext(nil))
}

func TestWithLoggerRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", zap.String("k", "v"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "hello", entry.Message)
	require.Equal(t, "v", entry.ContextMap()["k"])
}

func TestNewSelectsEncoderByEnvironment(t *testing.T) {
	require.True(t, IsDevelopment("Development"))
	require.True(t, IsDevelopment(""))
	require.False(t, IsDevelopment("Production"))

	for _, env := range []string{"Development", "Production"} {
		logger, err := New(env)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}
