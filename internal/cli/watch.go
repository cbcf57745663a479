package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/present"
	"github.com/mithrel/notebook/internal/present/format"
	"github.com/mithrel/notebook/internal/watch"
)

const clearScreen = "\x1b[H\x1b[2J"

func newWatchCmd() *cobra.Command {
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a Markdown file every time it changes",
		Long: "Watch prints the rendered file, then prints it again after every change. " +
			"JSON output is one snapshot per line.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			nb := app.Notebook
			out := cmd.OutOrStdout()

			w, err := watch.New(args[0], nb,
				watch.WithDebounce(app.Cfg.WatchDebounce),
				watch.WithLogger(app.Log.With().Str("component", "watch").Logger()),
			)
			if err != nil {
				return err
			}
			if err := w.Load(); err != nil {
				return err
			}
			opts, err := of.options(cmd, app)
			if err != nil {
				return err
			}

			emit := emitter(out, opts, isTerminal(out))
			var mu sync.Mutex
			var emitErr error
			show := func() {
				mu.Lock()
				defer mu.Unlock()
				if err := emit(nb); err != nil && emitErr == nil {
					emitErr = err
				}
			}
			show()
			cancel := nb.Subscribe(func(notebook.Change) { show() })
			defer cancel()

			if err := w.Run(cmd.Context()); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return emitErr
		},
	}
	of.register(cmd)
	cmd.Flags().Int("debounce", 50, "coalesce change events within this many milliseconds")
	return cmd
}

// emitter writes one rendering of the note per call.
func emitter(out io.Writer, opts present.Options, tty bool) func(*notebook.Notebook) error {
	switch opts.Mode {
	case present.ModeJSON:
		nw := format.NewNDJSONStreamWriter(out)
		return func(nb *notebook.Notebook) error {
			snap, err := nb.Snapshot()
			if err != nil {
				return err
			}
			if opts.Sanitizer != nil {
				snap.Preview = opts.Sanitizer.Sanitize(snap.Preview)
			}
			return nw.WriteSnapshot(snap)
		}
	case present.ModePretty:
		return func(nb *notebook.Notebook) error {
			if tty {
				if _, err := io.WriteString(out, clearScreen); err != nil {
					return err
				}
			}
			return present.RenderNote(out, nb, opts)
		}
	default:
		return func(nb *notebook.Notebook) error {
			if _, err := fmt.Fprintf(out, "<!-- revision %d -->\n", nb.Revision()); err != nil {
				return err
			}
			return present.RenderNote(out, nb, opts)
		}
	}
}
