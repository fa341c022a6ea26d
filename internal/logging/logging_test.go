package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
	}{
		{name: "Development Environment", environment: DevelopmentEnvironment},
		{name: "Production Environment", environment: ProductionEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.environment)
			require.NotNil(t, Get(context.Background()))
		})
	}
}

func TestGetReturnsDefaultWithoutSetup(t *testing.T) {
	require.NotNil(t, Get(context.Background()))
}

func TestWithLogger(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	Info(ctx, "processing region")

	require.Equal(t, 1, recorded.Len())
	require.Equal(t, "processing region", recorded.All()[0].Message)
}

func TestWithFields(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithFields(ctx, zap.Int("region", 2))
	Warn(ctx, "edit rejected")

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	require.Equal(t, "edit rejected", entry.Message)
	require.Equal(t, int64(2), entry.ContextMap()["region"])
}

func TestLevels(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	Debug(ctx, "debug")
	Info(ctx, "info")
	Warn(ctx, "warn")
	Error(ctx, "error")

	require.Equal(t, 4, recorded.Len())
}
