package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNewWritesFilesByLevel(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	log, err := New(Options{Level: "info", Dir: dir, Console: &console})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("granted", "product", "p1")
	log.Error("boom")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)

	assert.Contains(t, console.String(), "granted")
	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, string(info), `"product":"p1"`)
	assert.Contains(t, string(info), "boom")
	assert.NotContains(t, string(errs), "granted")
	assert.Contains(t, string(errs), "boom")
}

func TestNewConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &console})
	require.NoError(t, err)

	log.With("component", "stats").Warn("slow")
	log.Info("quiet")

	assert.Contains(t, console.String(), "component=stats")
	assert.NotContains(t, console.String(), "quiet")
}
