package app

import (
	"github.com/pstuifzand/prompt-diff/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// PendingKeyBinding is a prefix key (like 'g') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune
	Description string
	Sequences   map[rune]KeyBinding
}

// GetKey returns the prefix key
func (pkb *PendingKeyBinding) GetKey() rune {
	return pkb.Prefix
}

// GetDescription returns the description
func (pkb *PendingKeyBinding) GetDescription() string {
	return pkb.Description
}

// InitializeKeybindings sets up the normal mode key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         'd',
			Description: "Toggle diff overlay",
			Handler: func(app *App) {
				app.ToggleDiff()
			},
		},
		{
			Key:         'b',
			Description: "Switch between after and before view",
			Handler: func(app *App) {
				app.ToggleView()
			},
		},
		{
			Key:         'n',
			Description: "Next change",
			Handler: func(app *App) {
				app.stepChange(app.view.NextChange)
			},
		},
		{
			Key:         'p',
			Description: "Previous change",
			Handler: func(app *App) {
				app.stepChange(app.view.PrevChange)
			},
		},
		{
			Key:         'j',
			Description: "Scroll down",
			Handler: func(app *App) {
				app.view.Scroll(1)
			},
		},
		{
			Key:         'k',
			Description: "Scroll up",
			Handler: func(app *App) {
				app.view.Scroll(-1)
			},
		},
		{
			Key:         'G',
			Description: "Go to bottom",
			Handler: func(app *App) {
				app.view.ScrollToBottom()
			},
		},
		{
			Key:         '/',
			Description: "Filter changes",
			Handler: func(app *App) {
				app.view.StartFilter()
			},
		},
		{
			Key:         's',
			Description: "Show change summary",
			Handler: func(app *App) {
				app.ShowSummary()
			},
		},
		{
			Key:         ':',
			Description: "Enter command mode",
			Handler: func(app *App) {
				app.command.Start()
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
		{
			Key:         'q',
			Description: "Quit",
			Handler: func(app *App) {
				app.Quit()
			},
		},
	}
}

// InitializePendingKeybindings sets up the two-key sequences
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'g',
			Description: "Go to (gg: top, gn: first change)",
			Sequences: map[rune]KeyBinding{
				'g': {
					Key:         'g',
					Description: "Go to top",
					Handler: func(app *App) {
						app.view.ScrollToTop()
					},
				},
				'n': {
					Key:         'n',
					Description: "Go to first change",
					Handler: func(app *App) {
						app.firstChange()
					},
				},
			},
		},
	}
}

// helpEntries lists the bindings shown on the help screen
func (a *App) helpEntries() []ui.KeyBindingInfo {
	var entries []ui.KeyBindingInfo
	for i := range a.keybindings {
		entries = append(entries, &a.keybindings[i])
	}
	for i := range a.pendingKeybindings {
		entries = append(entries, &a.pendingKeybindings[i])
	}
	return entries
}

// commandHelp lists the ':' commands for the help screen
func commandHelp() []ui.HelpEntry {
	return []ui.HelpEntry{
		{Name: "diff on|off|toggle", Description: "Switch the diff overlay"},
		{Name: "view after|before", Description: "Show the after or before version"},
		{Name: "filter <query>", Description: "Keep changes matching query"},
		{Name: "export <file.md>", Description: "Write a markdown report"},
		{Name: "set [key [value]]", Description: "Show or change settings (show_ghosts)"},
		{Name: "summary", Description: "Show change summary"},
		{Name: "debug", Description: "Toggle debug mode"},
		{Name: "q", Description: "Quit"},
	}
}

// GetKeybindingByKey returns the keybinding for a given key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

// GetPendingKeyBindingByPrefix returns the pending keybinding for a prefix
func (a *App) GetPendingKeyBindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}
