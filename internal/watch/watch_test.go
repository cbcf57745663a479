package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/render"
)

func newNotebook() *notebook.Notebook {
	return notebook.New(render.NewMarkdown(render.Options{}))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# From disk"), 0o600))

	nb := newNotebook()
	w, err := New(path, nb)
	require.NoError(t, err)
	require.NoError(t, w.Load())

	assert.Equal(t, "# From disk", nb.Content())
	assert.Equal(t, "<h1>From disk</h1>\n", nb.MustPreview())
}

func TestLoadMissingFile(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing.md"), newNotebook())
	require.NoError(t, err)
	assert.Error(t, w.Load())
}

func runWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
}

func TestRunPropagatesWrites(t *testing.T) {
	for _, debounce := range []time.Duration{0, 20 * time.Millisecond} {
		t.Run(debounce.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "note.md")
			require.NoError(t, os.WriteFile(path, []byte("start"), 0o600))

			nb := newNotebook()
			w, err := New(path, nb, WithDebounce(debounce))
			require.NoError(t, err)
			require.NoError(t, w.Load())
			runWatcher(t, w)

			// The watch may not be registered yet; keep writing until it is.
			require.Eventually(t, func() bool {
				_ = os.WriteFile(path, []byte("**changed**"), 0o600)
				return nb.Content() == "**changed**"
			}, 5*time.Second, 50*time.Millisecond)
			assert.Equal(t, "<p><strong>changed</strong></p>\n", nb.MustPreview())

			// Other files in the directory are ignored.
			rev := nb.Revision()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o600))
			time.Sleep(100 * time.Millisecond)
			assert.Equal(t, rev, nb.Revision())
		})
	}
}

func TestRunPicksUpAtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	nb := newNotebook()
	w, err := New(path, nb)
	require.NoError(t, err)
	require.NoError(t, w.Load())
	runWatcher(t, w)

	require.Eventually(t, func() bool {
		tmp := filepath.Join(dir, ".note.md.tmp")
		_ = os.WriteFile(tmp, []byte("v2"), 0o600)
		_ = os.Rename(tmp, path)
		return nb.Content() == "v2"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	w, err := New(path, newNotebook())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
