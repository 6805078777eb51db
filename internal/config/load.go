package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/typewriter/internal/config/loader"
)

// EnvPrefix prefixes environment overrides: TYPEWRITER_TYPING_TYPE_SPEED
// sets typing.type_speed.
const EnvPrefix = "TYPEWRITER"

// FlagKeys maps command line flag names to setting keys.
var FlagKeys = map[string]string{
	"type-speed":       "typing.type_speed",
	"back-speed":       "typing.back_speed",
	"start-delay":      "typing.start_delay",
	"back-delay":       "typing.back_delay",
	"smart-backspace":  "typing.smart_backspace",
	"shuffle":          "typing.shuffle",
	"fade-out":         "typing.fade_out",
	"fade-out-delay":   "typing.fade_out_delay",
	"loop":             "typing.loop",
	"loop-count":       "typing.loop_count",
	"show-cursor":      "typing.show_cursor",
	"cursor-char":      "typing.cursor_char",
	"content-type":     "typing.content_type",
	"attr":             "typing.attr",
	"bind-focus":       "typing.bind_input_focus_events",
	"seed":             "typing.seed",
	"ui":               "ui.mode",
	"exit-on-complete": "ui.exit_on_complete",
	"strings-file":     "source.file",
	"strings-path":     "source.key_path",
	"watch":            "source.watch",
	"script":           "script.path",
	"sound":            "sound.enabled",
	"log-level":        "logging.level",
	"log-file":         "logging.file",
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path is an explicit config file. It must exist.
	Path string

	// SearchPaths are tried in order when Path is empty; the first file
	// that exists is loaded. Nil uses DefaultSearchPaths.
	SearchPaths []string

	// Flags are bound over every other layer. Only flags that were set
	// on the command line take effect.
	Flags *pflag.FlagSet

	// FS reads config files. Nil uses the OS file system.
	FS loader.FileSystem
}

// DefaultSearchPaths returns the files looked for when no config path is
// given: typewriter.{toml,yaml,yml,json} in the working directory, then
// config.* in the user config directory.
func DefaultSearchPaths() []string {
	exts := []string{".toml", ".yaml", ".yml", ".json"}

	var paths []string
	for _, ext := range exts {
		paths = append(paths, "typewriter"+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, "typewriter", "config"+ext))
		}
	}
	return paths
}

// NewViper builds a viper instance with every layer applied and returns it
// with the path of the file it read, if any.
func NewViper(opts LoadOptions) (*viper.Viper, string, error) {
	v := viper.New()
	SetDefaults(v)

	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}

	file, err := resolveFile(fsys, opts)
	if err != nil {
		return nil, "", err
	}
	if file != "" {
		data, err := loader.NewFileLoaderWithFS(fsys, file).Load()
		if err != nil {
			return nil, "", err
		}
		if err := v.MergeConfigMap(data); err != nil {
			return nil, "", fmt.Errorf("merging %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, "", fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	return v, file, nil
}

// Load resolves the configuration layers and decodes them. The result is
// not validated.
func Load(opts LoadOptions) (*Config, error) {
	v, file, err := NewViper(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = file
	return &cfg, nil
}

func resolveFile(fsys loader.FileSystem, opts LoadOptions) (string, error) {
	if opts.Path != "" {
		if _, err := fsys.Stat(opts.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrFileNotFound, opts.Path)
			}
			return "", err
		}
		return opts.Path, nil
	}

	paths := opts.SearchPaths
	if paths == nil {
		paths = DefaultSearchPaths()
	}
	for _, p := range paths {
		if _, err := fsys.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}
