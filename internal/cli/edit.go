package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mithrel/notebook/internal/editor"
	"github.com/mithrel/notebook/internal/present"
	"github.com/mithrel/notebook/internal/present/tui"
	"github.com/mithrel/notebook/internal/render"
)

func newEditCmd() *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a note with a live rendered preview",
		Long: "Edit opens a split-pane editor: Markdown on the left, the rendered note on " +
			"the right. With a file argument the note is loaded from and saved back to it. " +
			"--external uses $VISUAL/$EDITOR instead and prints the HTML preview afterwards.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			nb := app.Notebook
			log := app.Log.With().Str("component", "edit").Logger()

			var path string
			if len(args) == 1 {
				path = args[0]
				content, exists, err := readNoteFile(path)
				if err != nil {
					return err
				}
				if exists {
					nb.SetContent(content)
				} else {
					nb.SetContent("")
				}
			}

			save := func(content string) error {
				if err := writeNoteFile(path, content); err != nil {
					return err
				}
				log.Info().Str("path", path).Int("bytes", len(content)).Msg("saved")
				return nil
			}

			if external {
				scratch, err := editor.PathForNote(nameFor(path))
				if err != nil {
					return err
				}
				changed, err := editor.Edit(cmd.Context(), nb, scratch)
				if err != nil {
					return err
				}
				defer removeQuietly(scratch)
				if changed && path != "" {
					if err := save(nb.Content()); err != nil {
						return err
					}
				}
				return present.RenderNote(cmd.OutOrStdout(), nb, present.Options{Mode: present.ModeHTML})
			}

			if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
				return errors.New("edit needs a terminal; use --external or `notebook render`")
			}
			opts := tui.Options{
				Name: nameFor(path),
				Pretty: func(width int) (render.Converter, error) {
					return render.NewTerminal(app.Cfg.PrettyStyle, width)
				},
			}
			if path != "" {
				opts.Save = save
			}
			res, err := tui.Run(cmd.Context(), nb, opts)
			if err != nil {
				return err
			}
			if res.Dirty && path != "" {
				return save(nb.Content())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "edit in $VISUAL/$EDITOR instead of the built-in editor")
	return cmd
}

func nameFor(path string) string {
	if path == "" {
		return "scratch"
	}
	return filepath.Base(path)
}
