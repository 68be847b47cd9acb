// Package config handles loading and saving unimatch configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/unimatch/config.yaml
//   - Data:    ~/.local/share/unimatch/ (history database)
//   - State:   ~/.local/state/unimatch/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "unimatch"

// Levels accepted by the recommender API.
var Levels = []string{"ol", "al", "diploma", "hnd", "bsc", "postgrad"}

// APIConfig points at the upstream recommender.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	DefaultLevel string        `yaml:"default_level,omitempty"` // one of Levels
}

// UIConfig holds dashboard preferences.
type UIConfig struct {
	DefaultTab string `yaml:"default_tab,omitempty"` // career, skills, market
	Mouse      *bool  `yaml:"mouse,omitempty"`       // nil means enabled
}

// MouseEnabled reports whether mouse support is on.
func (u UIConfig) MouseEnabled() bool {
	return u.Mouse == nil || *u.Mouse
}

// WatchConfig tunes live reload of --file.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// HistoryConfig controls the local run history.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // nil means enabled
	Path    string `yaml:"path,omitempty"`    // default: DataDir()/history.db
	Keep    int    `yaml:"keep,omitempty"`    // runs kept after pruning; 0 = unlimited
}

// IsEnabled reports whether fetched runs are stored.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// Config is the top-level configuration for unimatch.
type Config struct {
	API     APIConfig     `yaml:"api,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "http://localhost:8000",
			Timeout:      30 * time.Second,
			DefaultLevel: "al",
		},
		UI: UIConfig{
			DefaultTab: "career",
		},
		Watch: WatchConfig{
			Debounce:     200 * time.Millisecond,
			PollInterval: 2 * time.Second,
		},
		History: HistoryConfig{
			Keep: 50,
		},
	}
}

// ConfigDir returns the XDG config directory for unimatch.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for unimatch.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for unimatch.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// HistoryPath returns the history database path, honouring history.path.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	dir := DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
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
// Returns DefaultConfig if the file doesn't exist.
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

	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.API.DefaultLevel = strings.ToLower(cfg.API.DefaultLevel)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot honour.
func (c Config) Validate() error {
	if c.API.DefaultLevel != "" && !ValidLevel(c.API.DefaultLevel) {
		return fmt.Errorf("invalid config: api.default_level %q (want one of %s)",
			c.API.DefaultLevel, strings.Join(Levels, ", "))
	}
	switch c.UI.DefaultTab {
	case "", "career", "skills", "market":
	default:
		return fmt.Errorf("invalid config: ui.default_tab %q (want career, skills or market)", c.UI.DefaultTab)
	}
	if c.API.Timeout < 0 || c.Watch.Debounce < 0 || c.Watch.PollInterval < 0 {
		return fmt.Errorf("invalid config: durations must not be negative")
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("invalid config: history.keep must not be negative")
	}
	return nil
}

// ValidLevel reports whether level names a recommender endpoint.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
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

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
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
