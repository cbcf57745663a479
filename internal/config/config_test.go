package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Chdir(dir)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	v := viper.New()
	require.NoError(t, Load(context.Background(), v))
	require.NoError(t, CheckConfigValidity(v))

	cfg := FromViper(v)
	assert.Equal(t, "This is a note.", cfg.DefaultContent)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Render.GFM)
	assert.False(t, cfg.Render.Unsafe)
	assert.Equal(t, "dracula", cfg.PrettyStyle)
	assert.Equal(t, 80, cfg.PrettyWrap)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 50*time.Millisecond, cfg.WatchDebounce)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "default_content = \"from file\"\n[render]\nunsafe = true\n[pretty]\nstyle = \"light\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("NOTEBOOK_PRETTY_STYLE", "pink")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	cfg := FromViper(v)
	assert.Equal(t, "from file", cfg.DefaultContent)
	assert.True(t, cfg.Render.Unsafe)
	assert.Equal(t, "pink", cfg.PrettyStyle)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, Load(context.Background(), v))
}

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	assert.NoError(t, CheckConfigValidity(v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")
	v.Set("pretty.style", "neon")
	v.Set("pretty.word_wrap", -1)
	v.Set("http_addr", "")
	v.Set("http.max_body_bytes", 0)
	v.Set("watch.debounce_ms", -5)

	err := CheckConfigValidity(v)
	require.Error(t, err)

	msg := err.Error()
	expected := []string{
		`log.level "loud" is not a level`,
		"log.format must be console or json",
		"pretty.style must be one of",
		"pretty.word_wrap must not be negative",
		"http_addr is required",
		"http.max_body_bytes must be greater than 0",
		"watch.debounce_ms must not be negative",
	}
	for _, want := range expected {
		assert.True(t, strings.Contains(msg, want), "expected error to contain %q, got %q", want, msg)
	}
}
