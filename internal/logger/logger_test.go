package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	log.With(String("file", "a.html")).Debug("converted", Int("n", 1), Bool("ok", true), Error(errors.New("x")))
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.With(String("k", "v")).Info("ignored")
	assert.NoError(t, log.Sync())
}
