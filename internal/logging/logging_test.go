package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "debug", "JSON")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("scenario", "Base").Info("simulated")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Base", entry["scenario"])
	assert.Equal(t, "simulated", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithOutput_TextAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "chatty", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nowhere")
	assert.NotNil(t, logger)
}
