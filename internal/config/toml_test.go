package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTOML(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)), "content:\n%s", content)
	return v
}

func TestRenderDefaultTOMLRoundTrips(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[render]")
	assert.Contains(t, out, `default_content = "This is a note."`)

	v := readTOML(t, out)
	for _, o := range GetConfigOptions() {
		assert.True(t, v.IsSet(o.Key), "key %s missing from generated config", o.Key)
	}
	assert.Equal(t, "This is a note.", v.GetString("default_content"))
	assert.Equal(t, true, v.GetBool("render.gfm"))
	assert.Equal(t, 80, v.GetInt("pretty.word_wrap"))
}

func TestUpdateTOMLUpToDate(t *testing.T) {
	_, changed := UpdateTOML(RenderDefaultTOML())
	assert.False(t, changed)
}

func TestUpdateTOMLMergesAndComments(t *testing.T) {
	existing := "http_addr = \":9000\"\nlegacy = 1\n\n[render]\nunsafe = true\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)

	assert.Contains(t, out, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, out, "[pretty]")

	v := readTOML(t, out)
	assert.Equal(t, ":9000", v.GetString("http_addr"))
	assert.True(t, v.GetBool("render.unsafe"))
	assert.True(t, v.GetBool("render.gfm"))
	assert.Equal(t, "This is a note.", v.GetString("default_content"))
	assert.False(t, v.IsSet("legacy"))

	again, changed := UpdateTOML(out)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}

func TestDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "notebook", "config.toml"), DefaultConfigPath())
}
