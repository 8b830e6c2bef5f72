package telemetry

import (
	"context"
	"testing"

	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	logger.Info("dropped")
	logger.With(zap.String("contract", "HP-001")).Warn("kept")
	logger.Error("also kept")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "HP-001", entries[0].ContextMap()["contract"])
	assert.Equal(t, "also kept", entries[1].Message)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	core := lp.Core("leasing", zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, "leasing", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}
