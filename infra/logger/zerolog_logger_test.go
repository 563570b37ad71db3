package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	SetLevel("info")

	l := NewZerologLogger("recompute").(*ZerologLogger).With("run_id", "r1")
	l.Debugf("hidden")
	l.Infof("facilities updated: %d", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "recompute", rec["component"])
	assert.Equal(t, "r1", rec["run_id"])
	assert.Equal(t, "facilities updated: 3", rec["message"])
	assert.Equal(t, "info", rec["level"])
}

func TestSetLevel_IgnoresUnknown(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	SetLevel("warn")
	SetLevel("loud")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
