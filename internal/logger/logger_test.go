package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(""))
}

func TestConsole(t *testing.T) {
	b := new(bytes.Buffer)
	log := NewWithFileConfig("info", FileConfig{}, b)

	log.Debug("hidden")
	log.Info("exported screen", zap.Int("screen", 3))
	require.NoError(t, log.Sync())

	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "INFO exported screen")
	assert.Contains(t, b.String(), `"screen": 3`)
}

func TestFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tilescreen.log")
	log := NewWithFileConfig("debug", DefaultFileConfig(file), nil)

	log.Debug("scanning bounds")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "scanning bounds")
}

func TestNop(t *testing.T) {
	log := NewWithFileConfig("debug", FileConfig{}, nil)
	assert.NotNil(t, log)
	log.Info("discarded")
}
