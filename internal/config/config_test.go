package config

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/typewriter/internal/humanize"
	"github.com/dshills/typewriter/internal/typing"
)

func loadFS(t *testing.T, files fstest.MapFS, opts LoadOptions) *Config {
	t.Helper()
	opts.FS = files
	if opts.SearchPaths == nil {
		opts.SearchPaths = []string{}
	}
	cfg, err := Load(opts)
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadFS(t, fstest.MapFS{}, LoadOptions{})

	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.Typing.Strings)
	assert.Equal(t, "0", cfg.Typing.TypeSpeed)
	assert.Equal(t, typing.DefaultBackDelay, cfg.Typing.BackDelay)
	assert.True(t, cfg.Typing.SmartBackspace)
	assert.True(t, cfg.Typing.ShowCursor)
	assert.Equal(t, "|", cfg.Typing.CursorChar)
	assert.Equal(t, "html", cfg.Typing.ContentType)
	assert.Equal(t, UITerminal, cfg.UI.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.BlinkRate)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "strings", cfg.Source.KeyPath)
	assert.Equal(t, time.Second, cfg.Script.Timeout)
}

func TestLoadFileFormats(t *testing.T) {
	files := fstest.MapFS{
		"a.toml": {Data: []byte(`
[typing]
strings = ["one", "two"]
type_speed = 40
back_delay = "1s"
loop = true

[ui]
mode = "plain"
`)},
		"a.yaml": {Data: []byte(`
typing:
  strings: [one, two]
  type_speed: 40
  back_delay: 1s
  loop: true
ui:
  mode: plain
`)},
		"a.json": {Data: []byte(`{
  "typing": {"strings": ["one", "two"], "type_speed": 40, "back_delay": "1s", "loop": true},
  "ui": {"mode": "plain"}
}`)},
	}

	for _, name := range []string{"a.toml", "a.yaml", "a.json"} {
		t.Run(name, func(t *testing.T) {
			cfg := loadFS(t, files, LoadOptions{Path: name})

			assert.Equal(t, name, cfg.File)
			if diff := cmp.Diff([]string{"one", "two"}, cfg.Typing.Strings); diff != "" {
				t.Errorf("strings mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, "40", cfg.Typing.TypeSpeed)
			assert.Equal(t, time.Second, cfg.Typing.BackDelay)
			assert.True(t, cfg.Typing.Loop)
			assert.Equal(t, UIPlain, cfg.UI.Mode)
			assert.True(t, cfg.Typing.SmartBackspace, "unset keys keep defaults")
		})
	}
}

func TestLoadSearchPaths(t *testing.T) {
	files := fstest.MapFS{
		"second.yaml": {Data: []byte("ui:\n  mode: bubbletea\n")},
	}
	cfg := loadFS(t, files, LoadOptions{SearchPaths: []string{"first.toml", "second.yaml"}})

	assert.Equal(t, "second.yaml", cfg.File)
	assert.Equal(t, UIBubbleTea, cfg.UI.Mode)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{Path: "missing.toml", FS: fstest.MapFS{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLoadInvalidFile(t *testing.T) {
	files := fstest.MapFS{"bad.toml": {Data: []byte("typing = [")}}
	_, err := Load(LoadOptions{Path: "bad.toml", FS: files})
	assert.Error(t, err)
}

func TestLayerPrecedence(t *testing.T) {
	files := fstest.MapFS{
		"typewriter.toml": {Data: []byte(`
[typing]
type_speed = "10"
back_speed = "20"
cursor_char = "_"
`)},
	}
	t.Setenv("TYPEWRITER_TYPING_BACK_SPEED", "30~60")
	t.Setenv("TYPEWRITER_TYPING_CURSOR_CHAR", "#")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("cursor-char", "|", "")
	flags.String("type-speed", "0", "")
	flags.Bool("loop", false, "")
	flags.Int("loop-count", 0, "")
	require.NoError(t, flags.Parse([]string{"--cursor-char=>", "--loop-count=3"}))

	cfg := loadFS(t, files, LoadOptions{Path: "typewriter.toml", Flags: flags})

	assert.Equal(t, "10", cfg.Typing.TypeSpeed, "unset flag does not override the file")
	assert.Equal(t, "30~60", cfg.Typing.BackSpeed, "env overrides the file")
	assert.Equal(t, ">", cfg.Typing.CursorChar, "flag overrides env")
	assert.Equal(t, 3, cfg.Typing.LoopCount)
	assert.False(t, cfg.Typing.Loop)
}

func TestEnvStringList(t *testing.T) {
	t.Setenv("TYPEWRITER_TYPING_STRINGS", "a,b,c")
	cfg := loadFS(t, fstest.MapFS{}, LoadOptions{})
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Typing.Strings)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := loadFS(t, fstest.MapFS{}, LoadOptions{})
	cfg.Typing.Strings = []string{"hello"}
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
		want   error
	}{
		{"no strings", func(c *Config) { c.Typing.Strings = nil }, "typing.strings", typing.ErrNoStrings},
		{"negative delay", func(c *Config) { c.Typing.BackDelay = -time.Second }, "typing.back_delay", typing.ErrNegativeDuration},
		{"bad attr", func(c *Config) { c.Typing.Attr = "value" }, "typing.attr", ErrInvalidValue},
		{"bad mode", func(c *Config) { c.UI.Mode = "gui" }, "ui.mode", ErrInvalidValue},
		{"bad stream", func(c *Config) { c.UI.Stream = "fast" }, "ui.stream", ErrInvalidValue},
		{"bad color", func(c *Config) { c.UI.Foreground = "nope" }, "ui.foreground", nil},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", nil},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.key, verr.Key)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want))
			}
		})
	}
}

func TestValidateStringsFromSource(t *testing.T) {
	cfg := validConfig(t)
	cfg.Typing.Strings = nil
	cfg.Source.File = "strings.txt"
	assert.NoError(t, cfg.Validate())
}

func TestValidateTypingErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Typing.TypeSpeed = "fast"

	err := cfg.Validate()
	require.Error(t, err)

	var cerr *typing.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "type_speed", cerr.Field)
	assert.True(t, errors.Is(err, humanize.ErrInvalidSpeed))

	cfg = validConfig(t)
	cfg.Typing.ContentType = "markdown"
	assert.True(t, errors.Is(cfg.Validate(), typing.ErrInvalidContentType))
}

func TestTypingOptions(t *testing.T) {
	cfg := validConfig(t)
	cfg.Typing.TypeSpeed = "30~80"
	cfg.Typing.BackSpeed = "20ms"
	cfg.Typing.ContentType = "plain"
	cfg.Typing.Shuffle = true
	cfg.Typing.LoopCount = 2
	cfg.Typing.Attr = typing.AttrTitle

	opts, err := cfg.TypingOptions()
	require.NoError(t, err)
	require.NoError(t, opts.Validate())

	assert.Equal(t, []string{"hello"}, opts.Strings)
	assert.Equal(t, humanize.Range(30*time.Millisecond, 80*time.Millisecond), opts.TypeSpeed)
	assert.Equal(t, humanize.Fixed(20*time.Millisecond), opts.BackSpeed)
	assert.Equal(t, typing.ContentPlain, opts.ContentType)
	assert.True(t, opts.Shuffle)
	assert.Equal(t, 2, opts.LoopCount)
	assert.Equal(t, typing.AttrTitle, opts.Attr)
	assert.Equal(t, typing.DefaultFadeOutClass, opts.FadeOutClass)

	opts.Strings[0] = "changed"
	assert.Equal(t, "hello", cfg.Typing.Strings[0], "options own their strings")
}
