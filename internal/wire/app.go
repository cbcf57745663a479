package wire

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mithrel/notebook/internal/config"
	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       config.Config
	Viper     *viper.Viper
	Log       zerolog.Logger
	Markdown  *render.Markdown
	Sanitizer *render.Sanitizer
	Notebook  *notebook.Notebook
}

// BuildApp wires dependencies from a loaded Viper instance. Logs go to
// logOut (stderr when nil).
func BuildApp(ctx context.Context, v *viper.Viper, logOut io.Writer) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, err
	}
	cfg := config.FromViper(v)
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := NewLogger(logOut, cfg.LogLevel, cfg.LogFormat)

	md := render.NewMarkdown(cfg.Render)
	nb := notebook.New(md,
		notebook.WithContent(cfg.DefaultContent),
		notebook.WithLogger(logger.With().Str("component", "notebook").Logger()),
	)
	logger.Debug().Interface("render", cfg.Render).Msg("app wired")

	return &App{
		Cfg:       cfg,
		Viper:     v,
		Log:       logger,
		Markdown:  md,
		Sanitizer: render.NewSanitizer(),
		Notebook:  nb,
	}, nil
}

// Terminal builds the glamour renderer configured for pretty output.
// A positive width overrides the configured wrap.
func (a *App) Terminal(width int) (*render.Terminal, error) {
	wrap := a.Cfg.PrettyWrap
	if width > 0 {
		wrap = width
	}
	return render.NewTerminal(a.Cfg.PrettyStyle, wrap)
}

// NewLogger builds a zerolog logger. format is "json" or "console".
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
