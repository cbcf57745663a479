package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags onto config keys. Flags only override
// the config when set explicitly.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"gfm":         "render.gfm",
	"footnotes":   "render.footnotes",
	"hard-wraps":  "render.hard_wraps",
	"unsafe":      "render.unsafe",
	"typographer": "render.typographer",
	"style":       "pretty.style",
	"width":       "pretty.word_wrap",
	"addr":        "http_addr",
	"debounce":    "watch.debounce_ms",
}

func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper) {
	for flagName, key := range flagKeys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := cmd.Flags().GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
