package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel)

	log.Info("audit", "audit passed", map[string]interface{}{"nodes": 729})
	log.Warning("audit", "slow", nil)
	log.Debug("energy", "scaling derived", map[string]interface{}{"scaling": 10922.33})
	log.Error("config", errors.New("bad sigma"), map[string]interface{}{"path": "x.yaml"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 4)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "audit", entries[0]["component"])
	assert.Equal(t, "audit passed", entries[0]["message"])
	assert.Equal(t, 729.0, entries[0]["nodes"])
	assert.Contains(t, entries[0], "time")

	assert.Equal(t, "warn", entries[1]["level"])
	assert.Equal(t, "debug", entries[2]["level"])

	assert.Equal(t, "error", entries[3]["level"])
	assert.Equal(t, "bad sigma", entries[3]["error"])
	assert.Equal(t, "x.yaml", entries[3]["path"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Info("audit", "hidden", nil)
	log.Debug("audit", "hidden", nil)
	log.Warning("audit", "shown", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Info("audit", "nothing", map[string]interface{}{"k": 1})
	log.Error("audit", errors.New("ignored"), nil)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}
