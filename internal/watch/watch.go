// Package watch keeps a notebook in sync with a Markdown file on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mithrel/notebook/internal/notebook"
)

// Watcher reloads a file into a notebook whenever it changes.
type Watcher struct {
	path     string
	nb       *notebook.Notebook
	debounce time.Duration
	log      zerolog.Logger
}

type Option func(*Watcher)

// WithDebounce coalesces bursts of events (editors often write in several
// steps). Zero reloads on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

func New(path string, nb *notebook.Notebook, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: abs, nb: nb, log: zerolog.Nop()}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Load reads the file into the notebook unconditionally.
func (w *Watcher) Load() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	w.nb.SetContent(string(data))
	return nil
}

// reload stores the file content if it differs from the note. A missing
// file keeps the last content; editors briefly remove files while saving.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.log.Warn().Err(err).Str("path", w.path).Msg("reload failed")
		}
		return
	}
	if string(data) == w.nb.Content() {
		return
	}
	w.nb.SetContent(string(data))
	w.log.Info().Str("path", w.path).Uint64("rev", w.nb.Revision()).Msg("note reloaded")
}

// Run watches the file's directory until ctx is cancelled. The directory is
// watched rather than the file so atomic rename-on-save is picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Debug().Str("path", w.path).Msg("watching")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if w.debounce <= 0 {
				w.reload()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}
