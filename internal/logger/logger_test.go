// file: internal/logger/logger_test.go
// version: 1.0.0
// guid: 0d7da4db-43aa-4eb6-a5cc-ca9904f07689

package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, FormatConsole, ParseLogFormat("console"))
	assert.Equal(t, FormatConsole, ParseLogFormat("anything"))
}

func TestSetup_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	defer Setup(Config{})

	log := WithComponent("search")
	log.Info().Str("query", "dune").Msg("submitted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "search", line["component"])
	assert.Equal(t, "dune", line["query"])
	assert.Equal(t, "info", line["level"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: "warn", Format: FormatJSON, Output: &buf})
	defer Setup(Config{})

	log := Get()
	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_ReachesLoggersBuiltEarlier(t *testing.T) {
	var before bytes.Buffer
	Setup(Config{Level: "info", Format: FormatJSON, Output: &before})
	defer Setup(Config{})

	captured := WithComponent("search")
	captured.Debug().Msg("filtered")
	assert.Zero(t, before.Len())

	var after bytes.Buffer
	Setup(Config{Level: "debug", Format: FormatJSON, Output: &after})

	captured.Debug().Msg("from-captured")
	assert.Zero(t, before.Len())

	var line map[string]any
	require.NoError(t, json.Unmarshal(after.Bytes(), &line))
	assert.Equal(t, "search", line["component"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "from-captured", line["message"])
}

func TestSetup_SwitchesFormatForExistingLoggers(t *testing.T) {
	captured := WithComponent("covers")

	var buf bytes.Buffer
	Setup(Config{Level: "info", Format: FormatConsole, Output: &buf})
	defer Setup(Config{})

	captured.Info().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestTrack_FastOperationLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	defer Setup(Config{})

	done := Track(Get(), "search request", time.Hour)
	done()

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), "search request completed")
}

func TestTrack_SlowOperationWarns(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	defer Setup(Config{})

	done := Track(Get(), "fetch", time.Nanosecond)
	time.Sleep(time.Millisecond)
	done()

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "fetch completed (slow)")
}
