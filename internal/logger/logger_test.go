package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Debug("hidden")
	Info("post created", zap.Uint("post_id", 7))
	Warn("cache miss")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "post created", entry.Message)
	assert.EqualValues(t, 7, entry.ContextMap()["post_id"])
	assert.Equal(t, "cache miss", logs.All()[1].Message)
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	assert.Error(t, Init("loud", false))
	assert.NoError(t, Init("debug", true))
}
