// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/formfill-cli/internal/config"
)

// initWithBuffer initializes the global logger writing console output into a
// buffer, so tests can assert on the rendered lines.
func initWithBuffer(cfg config.LoggerConfig) *bytes.Buffer {
	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestInitializeLogger(t *testing.T) {

	t.Run("should initialize console logger with colors", func(t *testing.T) {
		ResetForTest()
		cfg := config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors: config.ColorConfig{
				Info: "green",
			},
		}
		buf := initWithBuffer(cfg)

		GetLogger().Info("This is a test message.")

		output := buf.String()
		assert.Contains(t, output, "INFO", "Output should contain the log level")
		assert.Contains(t, output, "This is a test message.", "Output should contain the message")
		assert.Contains(t, output, colorGreen, "Info level should be colorized green")
		assert.Contains(t, output, colorReset, "Output should contain the reset color code")
	})

	t.Run("should initialize json logger", func(t *testing.T) {
		ResetForTest()
		cfg := config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "JSONTest",
		}
		buf := initWithBuffer(cfg)

		GetLogger().Warn("This is a JSON message.", zap.String("key", "value"))

		var logEntry map[string]interface{}
		err := json.Unmarshal(buf.Bytes(), &logEntry)
		require.NoError(t, err, "Log output should be valid JSON")

		assert.Equal(t, "WARN", logEntry["level"])
		assert.Equal(t, "JSONTest", logEntry["logger"])
		assert.Equal(t, "This is a JSON message.", logEntry["msg"])
		assert.Equal(t, "value", logEntry["key"])
	})

	t.Run("should write to a log file if configured", func(t *testing.T) {
		ResetForTest()
		tmpFile, err := os.CreateTemp("", "logger-test-*.log")
		require.NoError(t, err)
		defer os.Remove(tmpFile.Name())

		cfg := config.LoggerConfig{
			Level:   "debug",
			Format:  "json",
			LogFile: tmpFile.Name(),
			MaxSize: 1, // 1 MB
		}
		initWithBuffer(cfg)

		GetLogger().Error("This should go to the file.")
		Sync()

		content, err := os.ReadFile(tmpFile.Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "This should go to the file.", "Log file should contain the message")
	})

	t.Run("should only initialize once", func(t *testing.T) {
		ResetForTest()
		buf := initWithBuffer(config.LoggerConfig{Level: "info", ServiceName: "First"})
		logger1 := GetLogger()

		// Second initialization should be ignored.
		initWithBuffer(config.LoggerConfig{Level: "debug", ServiceName: "Second"})
		logger2 := GetLogger()

		assert.Equal(t, logger1, logger2)
		logger2.Info("test")

		assert.True(t, strings.Contains(buf.String(), "First"))
		assert.False(t, strings.Contains(buf.String(), "Second"))
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("should return a fallback logger if not initialized", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
	})

	t.Run("should return the global logger after initialization", func(t *testing.T) {
		ResetForTest()
		initWithBuffer(config.LoggerConfig{Level: "info", ServiceName: "GlobalTest"})

		logger := GetLogger()
		assert.Equal(t, globalLogger.Load(), logger)
	})
}
