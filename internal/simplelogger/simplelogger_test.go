package simplelogger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffy.log")
	t.Setenv(EnvLogFile, path)

	l := New(slog.LevelInfo)
	l.Info("hello", "source", "dmp")
	l.Debug("hidden")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	l = New(slog.LevelDebug)
	l.Debug("shown", "deltas", 3)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "msg=hello source=dmp")
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "msg=shown deltas=3")
}

func TestNew_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	l := New(slog.LevelDebug)
	l.Info("should not panic")
	assert.NoError(t, l.Close())
}

func TestNew_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	l := New(slog.LevelInfo)
	l.Info("ignored")
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
