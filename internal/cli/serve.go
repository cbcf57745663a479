package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/notebook/internal/server"
	"github.com/mithrel/notebook/internal/watch"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live HTML preview of the note",
		Long: "Serve exposes the note over HTTP. / shows the sanitized preview and refreshes " +
			"itself on change; PUT /api/note replaces the note. With a file argument the " +
			"file is loaded and watched; HTTP writes are kept in memory only.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()

			srv := server.New(app.Notebook, server.Options{
				Sanitizer:    app.Sanitizer,
				MaxBodyBytes: app.Cfg.MaxBodyBytes,
				Log:          app.Log.With().Str("component", "http").Logger(),
			})

			g, ctx := errgroup.WithContext(ctx)
			if len(args) == 1 {
				w, err := watch.New(args[0], app.Notebook,
					watch.WithDebounce(app.Cfg.WatchDebounce),
					watch.WithLogger(app.Log.With().Str("component", "watch").Logger()),
				)
				if err != nil {
					return err
				}
				if err := w.Load(); err != nil {
					return err
				}
				g.Go(func() error { return w.Run(ctx) })
			}
			g.Go(func() error { return srv.Run(ctx, app.Cfg.HTTPAddr) })
			return g.Wait()
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config http_addr)")
	cmd.Flags().Int("debounce", 50, "coalesce file change events within this many milliseconds")
	return cmd
}
