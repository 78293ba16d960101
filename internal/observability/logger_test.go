// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pagewrap/internal/config"
)

func testLoggerConfig(format string) config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      format,
		ServiceName: "pagewrap-test",
		Colors:      config.ColorConfig{Info: "green", Error: "red"},
	}
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(testLoggerConfig("json"), zapcore.AddSync(&buf))
		logger.Named("webdriver").Info("session started", zap.String("session_id", "abc"))

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "INFO", line["level"])
		assert.Equal(t, "pagewrap-test.webdriver", line["logger"])
		assert.Equal(t, "session started", line["msg"])
		assert.Equal(t, "abc", line["session_id"])
	})

	t.Run("console format colors configured levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(testLoggerConfig("console"), zapcore.AddSync(&buf))
		logger.Info("hello")
		logger.Warn("no color configured")

		out := buf.String()
		assert.Contains(t, out, colorGreen+"INFO"+colorReset)
		assert.Contains(t, out, "pagewrap-test.")
		assert.Contains(t, out, "\tWARN\t")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testLoggerConfig("json")
		cfg.Level = "loud"
		logger := New(cfg, zapcore.AddSync(&buf))
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("log file receives json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testLoggerConfig("console")
		cfg.LogFile = filepath.Join(t.TempDir(), "pagewrap.log")
		cfg.MaxSize = 1

		logger := New(cfg, zapcore.AddSync(&buf))
		logger.Info("to both")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "{"), "file output should be JSON")
		assert.Contains(t, string(data), `"msg":"to both"`)
		assert.Contains(t, buf.String(), "to both")
	})
}

func TestInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(testLoggerConfig("json"), zapcore.AddSync(&first))
	Initialize(testLoggerConfig("json"), zapcore.AddSync(&second))

	GetLogger().Info("once")
	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String(), "second Initialize must be a no-op")
	assert.Same(t, GetLogger(), zap.L())
}

func TestGetLogger(t *testing.T) {
	t.Run("fallback before initialization", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
	})

	t.Run("sync without logger is a no-op", func(t *testing.T) {
		ResetForTest()
		assert.NotPanics(t, Sync)
	})
}
