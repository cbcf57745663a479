package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps tests away from the developer's real config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("HOME", dir)
	t.Setenv("PAGER", "cat")
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRenderFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "note.md")
	writeFile(t, path, "**Bold** *Italic* [link](http://example.org/)")

	out, _, err := run(t, "", "render", path)
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Bold</strong> <em>Italic</em> <a href=\"http://example.org/\">link</a></p>\n", out)
}

func TestRenderStdin(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "This is a note.", "render")
	require.NoError(t, err)
	assert.Equal(t, "<p>This is a note.</p>\n", out)

	out, _, err = run(t, "", "render", "-")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRenderJSON(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "# T", "render", "-", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"content":"# T"`)
	assert.Contains(t, out, `"preview":"<h1>T</h1>\n"`)
}

func TestRenderUnsafeAndSanitize(t *testing.T) {
	isolate(t)
	in := "<em>raw</em>\n\n<script>alert(1)</script>\n"

	out, _, err := run(t, in, "render", "--unsafe")
	require.NoError(t, err)
	assert.Contains(t, out, "<script>")

	out, _, err = run(t, in, "render", "--unsafe", "--sanitize")
	require.NoError(t, err)
	assert.Contains(t, out, "<em>raw</em>")
	assert.NotContains(t, out, "<script>")

	out, _, err = run(t, in, "render")
	require.NoError(t, err)
	assert.NotContains(t, out, "<em>raw</em>")
}

func TestRenderGFMFlag(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "~~x~~", "render")
	require.NoError(t, err)
	assert.Equal(t, "<p><del>x</del></p>\n", out)

	out, _, err = run(t, "~~x~~", "render", "--gfm=false")
	require.NoError(t, err)
	assert.Equal(t, "<p>~~x~~</p>\n", out)
}

func TestRenderPretty(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "# Heading", "render", "-o", "pretty", "--style", "notty", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.NotContains(t, out, "<h1>")
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "render", "-", "--output", "yaml")
	assert.ErrorContains(t, err, `unknown output "yaml"`)

	_, _, err = run(t, "", "render", "missing.md")
	assert.Error(t, err)

	_, _, err = run(t, "", "render", "-", "--style", "neon")
	assert.ErrorContains(t, err, "pretty.style")
}

func TestConfigGenerateAndShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg", "config.toml")

	out, _, err := run(t, "", "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, _, err = run(t, "", "config", "generate", "-o", path)
	assert.ErrorContains(t, err, "config already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(data), `default_content = "This is a note."`, `default_content = "# Configured"`, 1)
	writeFile(t, path, edited)

	out, _, err = run(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# from "+path)
	assert.Contains(t, out, "default_content = # Configured")

	out, _, err = run(t, "", "--config", path, "config", "generate", "-o", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "Config already up to date")
}

func TestEditExternal(t *testing.T) {
	dir := isolate(t)
	script := filepath.Join(dir, "fake-editor")
	writeFile(t, script, "#!/bin/sh\nprintf '# Edited\\n' > \"$1\"\n")
	require.NoError(t, os.Chmod(script, 0o755))
	t.Setenv("VISUAL", script)

	path := filepath.Join(dir, "note.md")
	writeFile(t, path, "before")

	out, _, err := run(t, "", "edit", "--external", path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Edited</h1>\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Edited\n", string(data))
}

func TestEditNeedsTerminal(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "edit")
	assert.ErrorContains(t, err, "edit needs a terminal")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "note.md")
	writeFile(t, path, "first")

	root := NewRootCmd()
	var out syncBuffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"watch", path, "--debounce", "0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "<p>first</p>")
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("second"), 0o600)
		return strings.Contains(out.String(), "<p>second</p>")
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, out.String(), "<!-- revision 1 -->")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not exit")
	}
}

func TestStyleCompletion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "__complete", "render", "--style", "drac")
	require.NoError(t, err)
	assert.Contains(t, out, "dracula")
	assert.NotContains(t, out, "light")
}

func TestMatchCompletions(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, matchCompletions("", []string{"a", "b"}))
	assert.Equal(t, []string{"pretty"}, matchCompletions("prty", []string{"html", "pretty", "json"}))
	assert.Empty(t, matchCompletions("zzz", []string{"html"}))
}
