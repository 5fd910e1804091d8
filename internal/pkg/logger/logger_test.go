package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Run("開発環境", func(t *testing.T) {
		logger := NewLogger("development")
		require.NotNil(t, logger)

		logger.Info("test message")
	})

	t.Run("本番環境", func(t *testing.T) {
		logger := NewLogger("production")
		require.NotNil(t, logger)

		logger.Info("test message")
	})

	t.Run("LOG_LEVELでレベルを上書きできる", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "debug")
		defer os.Unsetenv("LOG_LEVEL")

		logger := NewLogger("development")
		require.NotNil(t, logger)
	})

	t.Run("無効なLOG_LEVELでも動作する", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "invalid_level")
		defer os.Unsetenv("LOG_LEVEL")

		logger := NewLogger("development")
		require.NotNil(t, logger)
	})
}

func TestGetAndSet(t *testing.T) {
	originalLogger := Get()
	defer Set(originalLogger) // テスト後に元に戻す

	newLogger := zap.NewNop()
	Set(newLogger)

	assert.Equal(t, newLogger, Get())
}
