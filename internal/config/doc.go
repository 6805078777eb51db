// Package config provides the configuration system for typewriter.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. TYPEWRITER_* env vars   │
//	├─────────────────────────────┤
//	│  2. Config file             │  ← typewriter.toml / .yaml / .json
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Files are read by the loader sub-package, which understands TOML, YAML
// and JSON and resolves @include directives. The layers are merged with
// viper and decoded into a Config.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.LoadOptions{Path: "typewriter.toml"})
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.TypingOptions()
//
// Durations are written as Go durations ("700ms", "1.5s"). Speeds accept
// milliseconds ("50"), durations ("50ms") or a range ("30~80").
package config
