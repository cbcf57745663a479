package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/notebook/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigGenerateCmd() *cobra.Command {
	var (
		out       string
		overwrite bool
		update    bool
	)
	cmd := &cobra.Command{
		Use:         "generate",
		Short:       "Generate a default config.toml",
		Long:        "Generate writes config.toml with every option at its default. --update merges new options into an existing file and comments out removed ones.",
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return errors.New("--overwrite and --update are mutually exclusive")
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			return generateConfig(cmd.OutOrStdout(), out, overwrite, update)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "where to write config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config, keeping a backup")
	cmd.Flags().BoolVar(&update, "update", false, "merge new defaults into an existing config, keeping a backup")
	return cmd
}

// generateConfig writes the default config to path, or merges it into an
// existing file when update is set.
func generateConfig(w io.Writer, path string, overwrite, update bool) error {
	existing, exists, err := readNoteFile(path)
	if err != nil {
		return err
	}

	content := config.RenderDefaultTOML()
	switch {
	case !exists:
	case update:
		merged, changed := config.UpdateTOML(existing)
		if !changed {
			_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", path)
			return nil
		}
		content = merged
	case !overwrite:
		return fmt.Errorf("config already exists at %s; pass --overwrite to replace it or --update to merge new defaults", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if exists {
		backup, err := backupConfig(path, existing)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Backup: %s\n", backup)
	}
	if err := writeNoteFile(path, content); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// backupConfig saves data next to path as path.bak, or a timestamped name
// when that is taken.
func backupConfig(path, data string) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = path + ".bak-" + time.Now().Format("20060102-150405")
	}
	return backup, os.WriteFile(backup, []byte(data), 0o600)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			w := cmd.OutOrStdout()
			if used := app.Viper.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(w, "# from %s\n", used)
			}
			for _, o := range config.GetConfigOptions() {
				_, _ = fmt.Fprintf(w, "%s = %v\n", o.Key, app.Viper.Get(o.Key))
			}
			return nil
		},
	}
}
