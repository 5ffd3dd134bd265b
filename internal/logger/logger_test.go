package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nhle/taskboard/internal/model"
)

func TestInit_WritesToFile(t *testing.T) {
	t.Cleanup(func() { Replace(zap.NewNop()) })
	path := filepath.Join(t.TempDir(), "logs", "taskboard.log")

	require.NoError(t, Init(model.LogConfig{Level: "debug", File: path}, OutputFile))
	Infof("hello %s", "world")
	L().Debug("structured", zap.Int("n", 3))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
	assert.Contains(t, string(data), "structured")
	assert.Contains(t, string(data), "INFO")
}

func TestInit_FileOutputNeedsPath(t *testing.T) {
	err := Init(model.LogConfig{Level: "info"}, OutputFile)
	require.Error(t, err)
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(zap.NewNop()) })

	Warnf("disk at %d%%", 91)
	Debugf("dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "disk at 91%", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
