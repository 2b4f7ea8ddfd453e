// Package config handles loading and saving jv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/jv/config.yaml
//   - State:   ~/.local/state/jv/ (collapse state database, log file)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "jv"

// Display modes for ui.default_mode.
const (
	ModeTree = "tree"
	ModeRaw  = "raw"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	LineNumbers   bool   `yaml:"line_numbers"`
	CollapseDepth int    `yaml:"collapse_depth"` // 0 = fully expanded
	DefaultMode   string `yaml:"default_mode,omitempty"`
}

// EditorConfig holds document handling settings.
type EditorConfig struct {
	RememberCollapsed bool   `yaml:"remember_collapsed"`
	Watch             bool   `yaml:"watch"`
	ConfirmOverwrite  bool   `yaml:"confirm_overwrite"`
	StatePath         string `yaml:"state_path,omitempty"` // collapse state database; default under StateDir
}

// Config is the top-level configuration for jv.
type Config struct {
	UI     UIConfig     `yaml:"ui"`
	Editor EditorConfig `yaml:"editor"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			LineNumbers: true,
			DefaultMode: ModeTree,
		},
		Editor: EditorConfig{
			RememberCollapsed: true,
			Watch:             true,
			ConfirmOverwrite:  true,
		},
	}
}

// Validate reports settings outside their allowed range.
func (c Config) Validate() error {
	switch c.UI.DefaultMode {
	case ModeTree, ModeRaw:
	default:
		return fmt.Errorf("ui.default_mode: unknown mode %q (want %s or %s)", c.UI.DefaultMode, ModeTree, ModeRaw)
	}
	if c.UI.CollapseDepth < 0 {
		return fmt.Errorf("ui.collapse_depth: must be >= 0, got %d", c.UI.CollapseDepth)
	}
	return nil
}

// ConfigDir returns the XDG config directory for jv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for jv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LogPath returns where the TUI writes its log.
func LogPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, appName+".log")
}

// StatePath returns the collapse state database path, honoring
// editor.state_path.
func (c Config) StatePath() string {
	if c.Editor.StatePath != "" {
		return c.Editor.StatePath
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "viewstate.db")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. Keys missing from the
// file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.UI.DefaultMode == "" {
		cfg.UI.DefaultMode = ModeTree
	}
	cfg.Editor.StatePath = expandHome(cfg.Editor.StatePath)

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
