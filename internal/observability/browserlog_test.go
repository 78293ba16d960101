package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/weblog"
)

func TestReplayBrowserLogs(t *testing.T) {
	entries, err := weblog.FromRecords([]schemas.LogRecord{
		{"message": "boom", "level": "SEVERE", "type": "browser", "timestamp": int64(1700000000000)},
		{"message": "careful", "level": "WARNING", "type": "browser", "timestamp": int64(1700000000001)},
		{"message": "fyi", "level": "INFO", "type": "browser", "timestamp": int64(1700000000002)},
		{"message": "noise", "level": "DEBUG", "type": "browser", "timestamp": int64(1700000000003)},
		{"message": "odd", "level": "TRACE", "type": "browser", "timestamp": int64(1700000000004)},
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	ReplayBrowserLogs(zap.New(core), entries)

	got := logs.AllUntimed()
	require.Len(t, got, 4, "debug entry is below the observer level")

	assert.Equal(t, zapcore.ErrorLevel, got[0].Level)
	assert.Equal(t, "boom", got[0].Message)
	assert.Equal(t, "SEVERE", got[0].ContextMap()["browser_level"])
	assert.Equal(t, zapcore.WarnLevel, got[1].Level)
	assert.Equal(t, zapcore.InfoLevel, got[2].Level)
	assert.Equal(t, zapcore.InfoLevel, got[3].Level)
	assert.Equal(t, "UNSET", got[3].ContextMap()["browser_level"])
	assert.Equal(t, "browser", got[3].ContextMap()["log_type"])
}
