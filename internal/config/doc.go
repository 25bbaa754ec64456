// Package config loads glance settings.
//
// Settings come from four layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← GLANCE_LOG_LEVEL, GLANCE_LOG_FILE, GLANCE_VIEW_MARKER
//	├─────────────────────────────┤
//	│  2. Config File             │  ← -config path or ~/.config/glance/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file and environment layers are read by the loader sub-package as
// raw maps, merged, and then type-checked against the known settings.
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath(path))
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	if err := cfg.ApplyOverrides(config.Overrides{LogLevel: "debug"}); err != nil {
//		return err
//	}
//	settings := cfg.Settings()
//
// # File Format
//
//	[logging]
//	level = "info"   # debug, info, warn, error
//	file = ""        # empty discards logs
//
//	[view]
//	marker = "~"     # drawn on rows past the end of the file
package config
