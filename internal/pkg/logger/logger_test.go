package logger

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	err := Setup(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestSetupJSONFormatter(t *testing.T) {
	require.NoError(t, Setup(Options{Level: "debug", JSON: true}))
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestLogErrorCarriesContext(t *testing.T) {
	require.NoError(t, Setup(Options{Level: "info"}))
	hook := test.NewGlobal()
	defer hook.Reset()

	LogError("board_publish_failed", errors.New("redis down"), map[string]interface{}{"lead_id": "abc"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "board_publish_failed", entry.Data["error_type"])
	assert.Equal(t, "redis down", entry.Data["error"])
	assert.Equal(t, "abc", entry.Data["lead_id"])
}

func TestLogEvent(t *testing.T) {
	require.NoError(t, Setup(Options{Level: "info"}))
	hook := test.NewGlobal()
	defer hook.Reset()

	LogEvent("relay_started", map[string]interface{}{"channel": "crm:kanban:events"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "relay_started", entry.Data["event_type"])
	Flush()
}
