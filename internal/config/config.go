package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Views the viewer can start in
const (
	ViewAfter  = "after"
	ViewBefore = "before"
)

const defaultTheme = "tokyo-night"

// classKeys are the keys accepted in [diff.after_classes] and [diff.before_classes]
var classKeys = map[string]bool{"insert": true, "delete": true, "replace": true, "ghost": true}

// DiffConfig holds the [diff] table
type DiffConfig struct {
	// ShowGhosts places deleted chunks in the after view. Unset means true.
	ShowGhosts *bool  `toml:"show_ghosts,omitempty"`
	StartView  string `toml:"start_view,omitempty"`

	// StartDisabled opens the viewer with the overlay switched off
	StartDisabled bool `toml:"start_disabled,omitempty"`

	// Class overrides keyed by insert, delete, replace and ghost
	AfterClasses  map[string]string `toml:"after_classes,omitempty"`
	BeforeClasses map[string]string `toml:"before_classes,omitempty"`
}

// Config is the viewer configuration. Settings are persisted, session
// settings made with Set live until the viewer exits and take precedence.
type Config struct {
	Theme    string            `toml:"theme"`
	Settings map[string]string `toml:"settings"`
	Diff     DiffConfig        `toml:"diff"`

	sessionSettings map[string]string
}

// Path returns $XDG_CONFIG_HOME/prompt-diff/config.toml
func Path() string {
	return filepath.Join(xdg.ConfigHome, "prompt-diff", "config.toml")
}

// Load reads the config from Path. A missing file gives the defaults.
func Load() (*Config, error) {
	return LoadFromFile(Path())
}

// LoadFromFile reads a config file on top of the defaults
func LoadFromFile(filePath string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.normalize()

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Theme:           defaultTheme,
		Settings:        make(map[string]string),
		Diff:            DiffConfig{StartView: ViewAfter},
		sessionSettings: make(map[string]string),
	}
}

func (c *Config) validate() error {
	for table, classes := range map[string]map[string]string{
		"diff.after_classes":  c.Diff.AfterClasses,
		"diff.before_classes": c.Diff.BeforeClasses,
	} {
		for key := range classes {
			if !classKeys[key] {
				return fmt.Errorf("unknown key %q in [%s]", key, table)
			}
		}
	}
	return nil
}

func (c *Config) normalize() {
	if c.Theme == "" {
		c.Theme = defaultTheme
	}
	if c.Diff.StartView != ViewBefore {
		c.Diff.StartView = ViewAfter
	}
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
}

// Set sets a session value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get returns the session value for key, then the persisted one, then ""
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	return c.Settings[key]
}

// GetAll returns a merged copy of persisted and session settings
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(c.Settings)+len(c.sessionSettings))
	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}
	return result
}

// Keys returns the names of all settings, sorted
func (c *Config) Keys() []string {
	all := c.GetAll()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ShowGhosts reports whether deleted chunks are placed in the after view.
// A "show_ghosts" setting overrides the [diff] table.
func (c *Config) ShowGhosts() bool {
	if show, err := strconv.ParseBool(c.Get("show_ghosts")); err == nil {
		return show
	}
	if c.Diff.ShowGhosts != nil {
		return *c.Diff.ShowGhosts
	}
	return true
}

// StartView returns the view the viewer opens with, after or before.
// A "start_view" setting overrides the [diff] table.
func (c *Config) StartView() string {
	view := c.Get("start_view")
	if view == "" {
		view = c.Diff.StartView
	}
	if view == ViewBefore {
		return ViewBefore
	}
	return ViewAfter
}

// SaveToFile writes the persisted part of the config, creating the
// directory when needed. Session settings are not written.
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
