package logger

import (
	"testing"

	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.App{LogLevel: "info", Mode: config.AppModeProduction})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = NewLogger(&config.App{LogLevel: "debug", Mode: config.AppModeDevelop})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(&config.App{LogLevel: "loud"})
	assert.Error(t, err)
}
