package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/notebook/internal/config"
	"github.com/mithrel/notebook/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// skipAppAnnotation marks commands that run without a wired App.
const skipAppAnnotation = "notebook/skip-app"

// Execute builds the root command and runs it with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "notebook",
		Short:         "notebook: write Markdown, see it rendered live",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v)

			app, err := wire.BuildApp(cmd.Context(), v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			cmd.SetContext(ctx)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (toml|yaml)")
	pf.String("log-level", "", "log level (trace|debug|info|warn|error)")
	pf.Bool("gfm", true, "enable GitHub Flavored Markdown")
	pf.Bool("footnotes", false, "enable footnotes")
	pf.Bool("hard-wraps", false, "render newlines as <br>")
	pf.Bool("unsafe", false, "pass raw HTML through to the preview")
	pf.Bool("typographer", false, "typographic quotes and dashes")
	pf.String("style", "", "glamour style for terminal output")
	registerStyleCompletion(cmd)

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
