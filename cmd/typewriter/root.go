package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/typewriter/internal/app"
	"github.com/dshills/typewriter/internal/config"
	"github.com/dshills/typewriter/internal/logging"
	"github.com/dshills/typewriter/internal/source"
	"github.com/dshills/typewriter/internal/typing"
)

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "typewriter [flags] [strings...]",
		Short: "Type strings into the terminal one character at a time",
		Long: `typewriter types each string, pauses, backspaces it and moves on to
the next, like a person typing. Strings come from the arguments, the
config file or a watched strings file.

Keys: space pauses and resumes, r restarts, q, Esc and Ctrl-C quit.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configPath, args)
			if err != nil {
				return err
			}
			return runTypewriter(cmd.Context(), cfg, in, out, errOut)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default: ./typewriter.{toml,yaml,json})")
	addOptionFlags(flags)

	root.AddCommand(newVersionCommand(), newCheckCommand(&configPath))
	return root
}

// addOptionFlags registers one flag per entry of config.FlagKeys. The
// defaults shown in help match config.SetDefaults; only flags given on
// the command line override the other layers.
func addOptionFlags(f *pflag.FlagSet) {
	d := typing.DefaultOptions()

	f.String("type-speed", "0", "delay per typed character: 50, 50ms or 30~80")
	f.String("back-speed", "0", "delay per removed character")
	f.Duration("start-delay", d.StartDelay, "delay before typing starts")
	f.Duration("back-delay", d.BackDelay, "pause before a string is removed")
	f.Bool("smart-backspace", d.SmartBackspace, "keep the prefix shared with the next string")
	f.Bool("shuffle", false, "type the strings in random order")
	f.Bool("fade-out", false, "fade strings out instead of backspacing")
	f.Duration("fade-out-delay", d.FadeOutDelay, "length of the fade")
	f.Bool("loop", false, "repeat the strings")
	f.Int("loop-count", 0, "number of passes when looping; 0 loops forever")
	f.Bool("show-cursor", d.ShowCursor, "show the cursor")
	f.String("cursor-char", d.CursorChar, "cursor glyph")
	f.String("content-type", string(d.ContentType), "html or plain")
	f.String("attr", typing.AttrText, `target: "" for the screen or "title" for the window title`)
	f.Bool("bind-focus", false, "pause while the terminal has focus")
	f.Uint64("seed", 0, "random seed for shuffle and humanized delays; 0 is random")
	f.String("ui", config.UITerminal, "frontend: terminal, plain or bubbletea")
	f.Bool("exit-on-complete", false, "exit when typing completes")
	f.String("strings-file", "", "read strings from a text, JSON, YAML or TOML file")
	f.String("strings-path", "strings", "key path of the string list in a structured strings file")
	f.Bool("watch", false, "reload the strings file when it changes")
	f.String("script", "", "Lua script with hook handlers")
	f.Bool("sound", false, "play a keyclick for every character")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-file", "", "write logs to this file")
}

// loadConfig resolves every config layer. Positional strings replace the
// configured ones.
func loadConfig(flags *pflag.FlagSet, path string, args []string) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: path, Flags: flags})
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Typing.Strings = args
	}
	return cfg, nil
}

func runTypewriter(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) error {
	// The other frontends own the terminal.
	var console zapcore.WriteSyncer
	if cfg.UI.Mode == config.UIPlain {
		console = zapcore.Lock(zapcore.AddSync(errOut))
	}
	logger, closer := logging.New(cfg.Logging, console)
	defer closer.Close()
	defer func() { _ = logger.Sync() }()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	logger.Debug("starting",
		zap.String("version", version),
		zap.String("config", cfg.File),
		zap.String("ui", cfg.UI.Mode),
	)

	a, err := app.New(cfg,
		app.WithLogger(logger),
		app.WithInput(in),
		app.WithOutput(out),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "typewriter %s\n", version)
			fmt.Fprintf(w, "Commit: %s\n", commit)
			fmt.Fprintf(w, "Built: %s\n", date)
		},
	}
}

func newCheckCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check [strings...]",
		Short: "Validate the configuration and print the resolved options",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), *configPath, args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			strs := cfg.Typing.Strings
			if cfg.Source.File != "" {
				strs, err = source.Load(cfg.Source.File, cfg.Source.KeyPath)
				if err != nil {
					return err
				}
			}

			doc, err := describe(cfg, strs)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(pretty.Pretty(doc))
			return err
		},
	}
}

// describe renders the resolved configuration as JSON.
func describe(cfg *config.Config, strs []string) ([]byte, error) {
	opts, err := cfg.TypingOptions()
	if err != nil {
		return nil, err
	}
	if strs == nil {
		strs = []string{}
	}

	sets := []struct {
		path  string
		value any
	}{
		{"config", cfg.File},
		{"strings", strs},
		{"typing.type_speed", opts.TypeSpeed.String()},
		{"typing.back_speed", opts.BackSpeed.String()},
		{"typing.start_delay", opts.StartDelay.String()},
		{"typing.back_delay", opts.BackDelay.String()},
		{"typing.smart_backspace", opts.SmartBackspace},
		{"typing.shuffle", opts.Shuffle},
		{"typing.fade_out", opts.FadeOut},
		{"typing.fade_out_delay", opts.FadeOutDelay.String()},
		{"typing.loop", opts.Loop},
		{"typing.loop_count", opts.LoopCount},
		{"typing.infinite", opts.InfiniteLoop()},
		{"typing.show_cursor", opts.ShowCursor},
		{"typing.cursor_char", opts.CursorChar},
		{"typing.content_type", string(opts.ContentType)},
		{"typing.attr", opts.Attr},
		{"typing.bind_input_focus_events", opts.BindInputFocusEvents},
		{"typing.seed", cfg.Typing.Seed},
		{"ui.mode", cfg.UI.Mode},
		{"ui.exit_on_complete", cfg.UI.ExitOnComplete},
		{"ui.stream", cfg.UI.Stream},
		{"source.file", cfg.Source.File},
		{"source.watch", cfg.Source.Watch},
		{"script.path", cfg.Script.Path},
		{"sound.enabled", cfg.Sound.Enabled},
		{"logging.level", cfg.Logging.Level},
		{"logging.file", cfg.Logging.File},
	}

	doc := []byte(`{}`)
	for _, kv := range sets {
		doc, err = sjson.SetBytes(doc, kv.path, kv.value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", kv.path, err)
		}
	}
	return doc, nil
}
