package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WAY_ENVIRONMENT", "")
	t.Setenv("WAY_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 50, cfg.MaxHistory)
	assert.Equal(t, 40.0, cfg.DuplicateOffsetX)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, ".way/store", cfg.StorePath)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "WAY_STORE_PATH=/tmp/from-dotenv\nWAY_LOG_LEVEL=warn\n")
	t.Chdir(dir)
	t.Setenv("WAY_ENVIRONMENT", "")
	t.Setenv("WAY_CONFIG_FILE", "")
	t.Setenv("WAY_STORE_PATH", "")
	require.NoError(t, os.Unsetenv("WAY_STORE_PATH"))
	t.Setenv("WAY_LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv", cfg.StorePath, "unset variables come from .env")
	assert.Equal(t, zapcore.ErrorLevel, cfg.Level(), "set variables win over .env")
}

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "way.yaml")
	writeFile(t, path, "log_level: debug\nmax_history: 10\nduplicate_offset_x: 5\nenable_tracing: true\n")

	t.Setenv("WAY_ENVIRONMENT", "production")
	t.Setenv("WAY_CONFIG_FILE", path)
	t.Setenv("WAY_MAX_HISTORY", "25")
	t.Setenv("WAY_ENABLE_METRICS", "yes")
	t.Setenv("WAY_DUPLICATE_OFFSET_Y", "12.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, 25, cfg.MaxHistory, "env wins over file")
	assert.Equal(t, 5.0, cfg.DuplicateOffsetX, "file wins over defaults")
	assert.Equal(t, 12.5, cfg.DuplicateOffsetY)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableTracing)

	domain := cfg.Domain()
	assert.Equal(t, 25, domain.MaxHistory)
	assert.Equal(t, 5.0, domain.DuplicateOffsetX)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown environment", env: map[string]string{"WAY_ENVIRONMENT": "moon"}},
		{name: "bad log level", env: map[string]string{"WAY_LOG_LEVEL": "loud"}},
		{name: "zero history", env: map[string]string{"WAY_MAX_HISTORY": "0"}},
		{name: "missing file", env: map[string]string{"WAY_CONFIG_FILE": "/nonexistent/way.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WAY_ENVIRONMENT", "")
			t.Setenv("WAY_CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestFileWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	writeFile(t, path, "{}")

	w, err := NewFileWatcher(path, zap.NewNop(), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })

	// other files in the directory are ignored
	writeFile(t, filepath.Join(dir, "other.json"), "{}")
	writeFile(t, path, `{"nodes":{}}`)

	select {
	case got := <-changed:
		assert.Equal(t, w.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestConfigWatcher_Reloads(t *testing.T) {
	t.Setenv("WAY_ENVIRONMENT", "")
	t.Setenv("WAY_MAX_HISTORY", "")

	path := filepath.Join(t.TempDir(), "way.yaml")
	writeFile(t, path, "max_history: 10\n")

	initial, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, 10, initial.MaxHistory)

	cw, err := NewConfigWatcher(initial, zap.NewNop(), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer cw.Close()

	reloaded := make(chan *Config, 4)
	cw.OnChange(func(c *Config) { reloaded <- c })

	writeFile(t, path, "max_history: 99\n")

	select {
	case c := <-reloaded:
		assert.Equal(t, 99, c.MaxHistory)
		assert.Same(t, c, cw.Current())
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestNewConfigWatcher_RequiresFile(t *testing.T) {
	_, err := NewConfigWatcher(&Config{}, nil)
	assert.Error(t, err)
}
