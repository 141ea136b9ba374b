package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"XLGALLERY_INPUT", "XLGALLERY_OUTPUT", "XLGALLERY_PRETTY", "XLGALLERY_DB_PATH",
		"XLGALLERY_ADDR", "XLGALLERY_DATA_URL", "XLGALLERY_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "realdata.xlsx", cfg.Input)
	assert.Equal(t, "data.json", cfg.Output)
	assert.True(t, cfg.Pretty)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DataURL)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XLGALLERY_INPUT", "book.xlsx")
	t.Setenv("XLGALLERY_OUTPUT", "out/records.json")
	t.Setenv("XLGALLERY_PRETTY", "off")
	t.Setenv("XLGALLERY_DB_PATH", "data/xlgallery.db")
	t.Setenv("XLGALLERY_ADDR", "127.0.0.1:9000")
	t.Setenv("XLGALLERY_DATA_URL", "http://localhost:9000/data.json")
	t.Setenv("XLGALLERY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "book.xlsx", cfg.Input)
	assert.Equal(t, "out/records.json", cfg.Output)
	assert.False(t, cfg.Pretty)
	assert.Equal(t, "data/xlgallery.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "http://localhost:9000/data.json", cfg.DataURL)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("XLGALLERY_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, getEnvBool("XLGALLERY_TEST_BOOL", tt.fallback))
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
	assert.Equal(t, slog.LevelError, Config{LogLevel: " error "}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "loud"}.Level())
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
