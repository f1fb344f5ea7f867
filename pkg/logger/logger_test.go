package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New("not-a-level", "json")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := WithLogger(context.Background(), scoped)

	assert.Same(t, scoped, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
