package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Manager loads and saves input histories as TOML files in one directory
type Manager struct {
	dir string
}

type historyFile struct {
	Entries []string `toml:"entries"`
}

// NewManager creates a manager for $XDG_DATA_HOME/prompt-diff/history/
func NewManager() (*Manager, error) {
	return NewManagerAt(filepath.Join(xdg.DataHome, "prompt-diff", "history"))
}

// NewManagerAt creates a manager storing its files in dir
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the directory the history files live in
func (m *Manager) Dir() string {
	return m.dir
}

// Load reads the entries of a history file. A missing or corrupt file gives
// an empty history.
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var file historyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return []string{}, nil
	}
	return file.Entries, nil
}

// Save writes the entries of a history file
func (m *Manager) Save(name string, entries []string) error {
	data, err := toml.Marshal(historyFile{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
