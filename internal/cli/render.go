package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/notebook/internal/present"
	"github.com/mithrel/notebook/internal/wire"
)

type outputFlags struct {
	output   string
	sanitize bool
	indent   bool
	width    int
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "html", "output format ("+strings.Join(present.Modes, "|")+")")
	cmd.Flags().BoolVar(&f.sanitize, "sanitize", false, "strip unsafe HTML from the output")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent JSON output")
	cmd.Flags().IntVar(&f.width, "width", 0, "wrap width for pretty output (default: terminal width or config)")
	registerOutputCompletion(cmd)
}

// options resolves the presenter options. --width reaches the config
// through the flag overrides; otherwise narrow terminals shrink the wrap.
func (f *outputFlags) options(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	mode, ok := present.ParseMode(f.output)
	if !ok {
		return present.Options{}, fmt.Errorf("unknown output %q (want %s)", f.output, strings.Join(present.Modes, ", "))
	}
	opts := present.Options{Mode: mode, JSONIndent: f.indent}
	if f.sanitize {
		opts.Sanitizer = app.Sanitizer
	}
	if mode == present.ModePretty {
		width := 0
		if !cmd.Flags().Changed("width") {
			if tw := terminalWidth(cmd.OutOrStdout()); tw > 0 && tw < app.Cfg.PrettyWrap {
				width = tw
			}
		}
		term, err := app.Terminal(width)
		if err != nil {
			return present.Options{}, err
		}
		opts.Terminal = term
	}
	return opts, nil
}

func newRenderCmd() *cobra.Command {
	var of outputFlags
	var noPager bool

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a Markdown note to HTML or the terminal",
		Long: "Render reads Markdown from a file, or from stdin when the argument is \"-\" " +
			"or omitted with piped input, and writes the rendered note. Without input the " +
			"configured default note is rendered.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			nb := app.Notebook

			src := ""
			if len(args) == 1 {
				src = args[0]
			} else if !isTerminal(cmd.InOrStdin()) {
				src = "-"
			}
			if src != "" {
				content, err := readInput(src, cmd.InOrStdin())
				if err != nil {
					return err
				}
				nb.SetContent(content)
			}

			opts, err := of.options(cmd, app)
			if err != nil {
				return err
			}
			write := func(w io.Writer) error { return present.RenderNote(w, nb, opts) }
			if noPager {
				return write(cmd.OutOrStdout())
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), write)
		},
	}
	of.register(cmd)
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "never pipe output through $PAGER")
	return cmd
}
