package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mithrel/notebook/internal/render"
)

// Config is the typed view of the settings the app is wired from.
type Config struct {
	DefaultContent string
	LogLevel       string
	LogFormat      string
	Render         render.Options
	PrettyStyle    string
	PrettyWrap     int
	HTTPAddr       string
	MaxBodyBytes   int64
	WatchDebounce  time.Duration
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence;
	// these paths are harmless fallbacks.
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "notebook"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "notebook"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file in the search path is fine; a broken or
		// explicitly requested one is not.
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: NOTEBOOK_* (highest among these sources)
	v.SetEnvPrefix("notebook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("log.level")) == "" {
		v.Set("log.level", "info")
	}
	return nil
}

// FromViper reads the typed Config out of a loaded Viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		DefaultContent: v.GetString("default_content"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		Render: render.Options{
			GFM:         v.GetBool("render.gfm"),
			Footnotes:   v.GetBool("render.footnotes"),
			HardWraps:   v.GetBool("render.hard_wraps"),
			Unsafe:      v.GetBool("render.unsafe"),
			Typographer: v.GetBool("render.typographer"),
		},
		PrettyStyle:   v.GetString("pretty.style"),
		PrettyWrap:    v.GetInt("pretty.word_wrap"),
		HTTPAddr:      v.GetString("http_addr"),
		MaxBodyBytes:  v.GetInt64("http.max_body_bytes"),
		WatchDebounce: time.Duration(v.GetInt("watch.debounce_ms")) * time.Millisecond,
	}
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "notebook", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "default_content", Default: "This is a note.", Comment: "Note text used when no file is given"},
		{Key: "http_addr", Default: "127.0.0.1:8080", Comment: "Listen address for `notebook serve`"},

		{Key: "log.level", Default: "info", Comment: "Log level: trace, debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log format: console or json"},

		{Key: "render.gfm", Default: true, Comment: "GitHub Flavored Markdown: tables, strikethrough, autolinks, task lists"},
		{Key: "render.footnotes", Default: false, Comment: "Enable footnote syntax"},
		{Key: "render.hard_wraps", Default: false, Comment: "Render single newlines as <br>"},
		{Key: "render.unsafe", Default: false, Comment: "Pass raw HTML in notes through to the preview"},
		{Key: "render.typographer", Default: false, Comment: "Replace quotes and dashes with typographic entities"},

		{Key: "pretty.style", Default: render.DefaultStyle, Comment: "glamour style for terminal output"},
		{Key: "pretty.word_wrap", Default: render.DefaultWordWrap, Comment: "Terminal preview wrap width (0 disables)"},

		{Key: "http.max_body_bytes", Default: 1 << 20, Comment: "Largest note accepted by PUT /api/note"},
		{Key: "watch.debounce_ms", Default: 50, Comment: "Coalesce file change events within this window"},
	}
}

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if _, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log.level"))); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a level", v.GetString("log.level")))
	}
	switch v.GetString("log.format") {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json"))
	}
	if !render.ValidStyle(v.GetString("pretty.style")) {
		errs = append(errs, fmt.Errorf("pretty.style must be one of %s", strings.Join(render.StyleNames, ", ")))
	}
	if v.GetInt("pretty.word_wrap") < 0 {
		errs = append(errs, errors.New("pretty.word_wrap must not be negative"))
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if v.GetInt64("http.max_body_bytes") <= 0 {
		errs = append(errs, errors.New("http.max_body_bytes must be greater than 0"))
	}
	if v.GetInt("watch.debounce_ms") < 0 {
		errs = append(errs, errors.New("watch.debounce_ms must not be negative"))
	}
	return errors.Join(errs...)
}
