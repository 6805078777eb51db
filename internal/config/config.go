package config

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/typewriter/internal/humanize"
	"github.com/dshills/typewriter/internal/renderer/core"
	"github.com/dshills/typewriter/internal/typing"
)

// UI modes.
const (
	UITerminal  = "terminal"
	UIPlain     = "plain"
	UIBubbleTea = "bubbletea"
)

// Stream modes for the plain UI.
const (
	StreamAuto    = "auto"
	StreamRewrite = "rewrite"
	StreamLine    = "line"
)

// Config is the fully resolved configuration.
type Config struct {
	Typing  TypingConfig  `mapstructure:"typing"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Sound   SoundConfig   `mapstructure:"sound"`
	Script  ScriptConfig  `mapstructure:"script"`
	Source  SourceConfig  `mapstructure:"source"`

	// File is the config file that was loaded, if any.
	File string `mapstructure:"-"`
}

// TypingConfig mirrors typing.Options in configuration form.
type TypingConfig struct {
	Strings              []string      `mapstructure:"strings"`
	TypeSpeed            string        `mapstructure:"type_speed"`
	BackSpeed            string        `mapstructure:"back_speed"`
	StartDelay           time.Duration `mapstructure:"start_delay"`
	BackDelay            time.Duration `mapstructure:"back_delay"`
	SmartBackspace       bool          `mapstructure:"smart_backspace"`
	Shuffle              bool          `mapstructure:"shuffle"`
	FadeOut              bool          `mapstructure:"fade_out"`
	FadeOutClass         string        `mapstructure:"fade_out_class"`
	FadeOutDelay         time.Duration `mapstructure:"fade_out_delay"`
	Loop                 bool          `mapstructure:"loop"`
	LoopCount            int           `mapstructure:"loop_count"`
	ShowCursor           bool          `mapstructure:"show_cursor"`
	CursorChar           string        `mapstructure:"cursor_char"`
	AutoInsertCSS        bool          `mapstructure:"auto_insert_css"`
	Attr                 string        `mapstructure:"attr"`
	BindInputFocusEvents bool          `mapstructure:"bind_input_focus_events"`
	ContentType          string        `mapstructure:"content_type"`

	// Seed fixes the shuffle and speed randomness. Zero seeds randomly.
	Seed uint64 `mapstructure:"seed"`
}

// UIConfig selects and styles the frontend.
type UIConfig struct {
	Mode           string        `mapstructure:"mode"`
	ExitOnComplete bool          `mapstructure:"exit_on_complete"`
	Foreground     string        `mapstructure:"foreground"`
	FadeColor      string        `mapstructure:"fade_color"`
	Bold           bool          `mapstructure:"bold"`
	CursorStyle    string        `mapstructure:"cursor_style"`
	BlinkRate      time.Duration `mapstructure:"blink_rate"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	Stream         string        `mapstructure:"stream"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File enables logging to a rotated file.
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SoundConfig configures keyclick audio.
type SoundConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// ScriptConfig configures Lua hooks.
type ScriptConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SourceConfig configures loading strings from a file.
type SourceConfig struct {
	File     string        `mapstructure:"file"`
	KeyPath  string        `mapstructure:"key_path"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers every setting with its default value.
func SetDefaults(v *viper.Viper) {
	d := typing.DefaultOptions()

	v.SetDefault("typing.strings", []string{})
	v.SetDefault("typing.type_speed", "0")
	v.SetDefault("typing.back_speed", "0")
	v.SetDefault("typing.start_delay", d.StartDelay)
	v.SetDefault("typing.back_delay", d.BackDelay)
	v.SetDefault("typing.smart_backspace", d.SmartBackspace)
	v.SetDefault("typing.shuffle", d.Shuffle)
	v.SetDefault("typing.fade_out", d.FadeOut)
	v.SetDefault("typing.fade_out_class", d.FadeOutClass)
	v.SetDefault("typing.fade_out_delay", d.FadeOutDelay)
	v.SetDefault("typing.loop", d.Loop)
	v.SetDefault("typing.loop_count", 0)
	v.SetDefault("typing.show_cursor", d.ShowCursor)
	v.SetDefault("typing.cursor_char", d.CursorChar)
	v.SetDefault("typing.auto_insert_css", d.AutoInsertCSS)
	v.SetDefault("typing.attr", typing.AttrText)
	v.SetDefault("typing.bind_input_focus_events", d.BindInputFocusEvents)
	v.SetDefault("typing.content_type", string(d.ContentType))
	v.SetDefault("typing.seed", uint64(0))

	v.SetDefault("ui.mode", UITerminal)
	v.SetDefault("ui.exit_on_complete", false)
	v.SetDefault("ui.foreground", "")
	v.SetDefault("ui.fade_color", "#000000")
	v.SetDefault("ui.bold", false)
	v.SetDefault("ui.cursor_style", "glyph")
	v.SetDefault("ui.blink_rate", 500*time.Millisecond)
	v.SetDefault("ui.tick_interval", 50*time.Millisecond)
	v.SetDefault("ui.stream", StreamAuto)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)

	v.SetDefault("sound.enabled", false)
	v.SetDefault("sound.volume", 0.0)

	v.SetDefault("script.path", "")
	v.SetDefault("script.timeout", time.Second)

	v.SetDefault("source.file", "")
	v.SetDefault("source.key_path", "strings")
	v.SetDefault("source.watch", false)
	v.SetDefault("source.debounce", 100*time.Millisecond)
}

// Validate checks the configuration for unsupported values. Strings are
// only required when no source file supplies them.
func (c *Config) Validate() error {
	if len(c.Typing.Strings) == 0 && c.Source.File == "" {
		return &ValidationError{Key: "typing.strings", Value: "[]", Err: typing.ErrNoStrings}
	}

	if _, err := c.TypingOptions(); err != nil {
		return err
	}

	durations := []struct {
		key string
		d   time.Duration
	}{
		{"typing.start_delay", c.Typing.StartDelay},
		{"typing.back_delay", c.Typing.BackDelay},
		{"typing.fade_out_delay", c.Typing.FadeOutDelay},
		{"ui.blink_rate", c.UI.BlinkRate},
		{"ui.tick_interval", c.UI.TickInterval},
		{"script.timeout", c.Script.Timeout},
		{"source.debounce", c.Source.Debounce},
	}
	for _, d := range durations {
		if d.d < 0 {
			return &ValidationError{Key: d.key, Value: d.d, Err: typing.ErrNegativeDuration}
		}
	}

	if c.Typing.Attr != typing.AttrText && c.Typing.Attr != typing.AttrTitle {
		return &ValidationError{Key: "typing.attr", Value: c.Typing.Attr, Err: ErrInvalidValue}
	}

	switch c.UI.Mode {
	case UITerminal, UIPlain, UIBubbleTea:
	default:
		return &ValidationError{Key: "ui.mode", Value: c.UI.Mode, Err: ErrInvalidValue}
	}

	switch c.UI.Stream {
	case StreamAuto, StreamRewrite, StreamLine:
	default:
		return &ValidationError{Key: "ui.stream", Value: c.UI.Stream, Err: ErrInvalidValue}
	}

	colors := map[string]string{"ui.foreground": c.UI.Foreground, "ui.fade_color": c.UI.FadeColor}
	for key, value := range colors {
		if value == "" {
			continue
		}
		if _, err := core.ColorFromHex(value); err != nil {
			return &ValidationError{Key: key, Value: value, Err: err}
		}
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Key: "logging.level", Value: c.Logging.Level, Err: err}
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return &ValidationError{Key: "logging.format", Value: c.Logging.Format, Err: ErrInvalidValue}
	}

	return nil
}

// TypingOptions converts the typing section to engine options. Hooks are
// left empty for the caller to fill in.
func (c *Config) TypingOptions() (typing.Options, error) {
	t := c.Typing
	opts := typing.DefaultOptions()

	typeSpeed, err := humanize.ParseSpeed(t.TypeSpeed)
	if err != nil {
		return opts, &typing.ConfigError{Field: "type_speed", Err: err}
	}
	backSpeed, err := humanize.ParseSpeed(t.BackSpeed)
	if err != nil {
		return opts, &typing.ConfigError{Field: "back_speed", Err: err}
	}
	contentType, err := typing.ParseContentType(t.ContentType)
	if err != nil {
		return opts, &typing.ConfigError{Field: "content_type", Err: err}
	}

	opts.Strings = append([]string(nil), t.Strings...)
	opts.TypeSpeed = typeSpeed
	opts.BackSpeed = backSpeed
	opts.StartDelay = t.StartDelay
	opts.BackDelay = t.BackDelay
	opts.SmartBackspace = t.SmartBackspace
	opts.Shuffle = t.Shuffle
	opts.FadeOut = t.FadeOut
	opts.FadeOutClass = t.FadeOutClass
	opts.FadeOutDelay = t.FadeOutDelay
	opts.Loop = t.Loop
	opts.LoopCount = t.LoopCount
	opts.ShowCursor = t.ShowCursor
	opts.CursorChar = t.CursorChar
	opts.AutoInsertCSS = t.AutoInsertCSS
	opts.Attr = t.Attr
	opts.BindInputFocusEvents = t.BindInputFocusEvents
	opts.ContentType = contentType

	return opts, nil
}
