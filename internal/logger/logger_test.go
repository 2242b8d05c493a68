package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 10, 14, 5, 9, 0, time.UTC) }

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Console: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown")
	require.NoError(t, l.Close())

	assert.Empty(t, l.Path)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Console: &buf, Verbose: true})
	require.NoError(t, err)

	l.Debug("fetched file")
	require.NoError(t, l.Close())

	assert.Contains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "fetched file")
}

func TestNew_RunLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	l, err := New(Config{Console: &buf, LogDir: dir, Now: fixedNow})
	require.NoError(t, err)

	flow := domain.FlowDefinition{Partner: "GNC", Direction: domain.DirectionInbound, Name: "orders"}
	ForRun(l.Logger, "run-42", flow).Debug("split file", zap.Int("units", 3))
	require.NoError(t, l.Close())

	assert.Equal(t, filepath.Join(dir, "jtlflow_20240610_140509.log"), l.Path)
	assert.NotContains(t, buf.String(), "split file")

	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "split file", entry["msg"])
	assert.Equal(t, "run-42", entry["run_id"])
	assert.Equal(t, "GNC", entry["partner"])
	assert.Equal(t, "inbound", entry["direction"])
	assert.Equal(t, "orders", entry["flow"])
	assert.Equal(t, float64(3), entry["units"])
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, colorEnabled(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, colorEnabled(f))
}
