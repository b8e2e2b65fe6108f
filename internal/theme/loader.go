package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// DefaultTintAmount is how far change backgrounds lean towards the change
// color when a theme file does not set them
const DefaultTintAmount = 0.2

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string  `toml:"name"`
	Tint   float64 `toml:"tint"`
	Colors struct {
		Text              string `toml:"text"`
		Background        string `toml:"background"`
		LineNumber        string `toml:"line_number"`
		Insert            string `toml:"insert"`
		Delete            string `toml:"delete"`
		Replace           string `toml:"replace"`
		Ghost             string `toml:"ghost"`
		InsertBackground  string `toml:"insert_background"`
		DeleteBackground  string `toml:"delete_background"`
		ReplaceBackground string `toml:"replace_background"`
		SelectedChange    string `toml:"selected_change"`
		HeaderTitle       string `toml:"header_title"`
		StatusMode        string `toml:"status_mode"`
		StatusMessage     string `toml:"status_message"`
		StatusOff         string `toml:"status_off"`
	} `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "prompt-diff", "themes"),
		filepath.Join(xdg.DataHome, "prompt-diff", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	return ParseTheme(data)
}

// ParseTheme parses TOML theme data
func ParseTheme(data []byte) (*Theme, error) {
	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo
// Night for missing colors. Change backgrounds that are not set are tinted
// from the resulting background and change colors.
func configToTheme(config ThemeConfig) (*Theme, error) {
	theme := TokyoNight()
	c := &theme.Colors

	overrides := []struct {
		value  string
		target *tcell.Color
	}{
		{config.Colors.Text, &c.Text},
		{config.Colors.Background, &c.Background},
		{config.Colors.LineNumber, &c.LineNumber},
		{config.Colors.Insert, &c.Insert},
		{config.Colors.Delete, &c.Delete},
		{config.Colors.Replace, &c.Replace},
		{config.Colors.Ghost, &c.Ghost},
		{config.Colors.SelectedChange, &c.SelectedChange},
		{config.Colors.HeaderTitle, &c.HeaderTitle},
		{config.Colors.StatusMode, &c.StatusMode},
		{config.Colors.StatusMessage, &c.StatusMessage},
		{config.Colors.StatusOff, &c.StatusOff},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		color, err := ParseColor(o.value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse theme file: %w", err)
		}
		*o.target = color
	}

	amount := config.Tint
	if amount <= 0 || amount > 1 {
		amount = DefaultTintAmount
	}
	backgrounds := []struct {
		value  string
		accent tcell.Color
		target *tcell.Color
	}{
		{config.Colors.InsertBackground, c.Insert, &c.InsertBackground},
		{config.Colors.DeleteBackground, c.Delete, &c.DeleteBackground},
		{config.Colors.ReplaceBackground, c.Replace, &c.ReplaceBackground},
	}
	for _, b := range backgrounds {
		if b.value == "" {
			*b.target = Tint(c.Background, b.accent, amount)
			continue
		}
		color, err := ParseColor(b.value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse theme file: %w", err)
		}
		*b.target = color
	}

	if config.Name != "" {
		theme.Name = config.Name
	}

	return theme, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
