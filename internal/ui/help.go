package ui

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// HelpEntry is one row of the help screen outside the key bindings
type HelpEntry struct {
	Name        string
	Description string
}

var specialKeys = []HelpEntry{
	{"Up/Down", "Scroll (alternative to j/k)"},
	{"PgUp/PgDn", "Scroll by half a page"},
	{"Escape", "Close overlays, clear filter"},
	{"Ctrl+C", "Quit"},
}

const helpColumn = 12

// HelpScreen lists key bindings, special keys and commands
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
	commands    []HelpEntry
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// SetCommands sets the ':' commands to display
func (h *HelpScreen) SetCommands(commands []HelpEntry) {
	h.commands = commands
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the help text, one entry per line
func (h *HelpScreen) Lines() []string {
	lines := []string{"Keybindings:", ""}
	for _, kb := range h.keybindings {
		lines = append(lines, helpLine(string(kb.GetKey()), kb.GetDescription()))
	}

	lines = append(lines, "", "Special Keys:")
	for _, entry := range specialKeys {
		lines = append(lines, helpLine(entry.Name, entry.Description))
	}

	if len(h.commands) > 0 {
		lines = append(lines, "", "Commands:")
		for _, entry := range h.commands {
			lines = append(lines, helpLine(":"+entry.Name, entry.Description))
		}
	}

	return lines
}

func helpLine(name, description string) string {
	return "  " + PadStringToWidth(name, helpColumn-1) + " " + description
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.TextStyle()

	for y := 0; y < screen.GetHeight(); y++ {
		screen.FillLine(0, y, contentStyle)
	}

	startY := 1
	startX := 2
	boxWidth := screen.GetWidth() - 4
	height := screen.GetHeight() - 2
	if boxWidth < 10 || height < 4 {
		return
	}

	lines := h.Lines()
	if len(lines)+4 > height {
		lines = lines[:height-4]
	}

	drawBox(screen, startX, startY, boxWidth, len(lines)+4, screen.BorderStyle())
	screen.DrawStringLimited(startX+2, startY+1, " Keybindings (? to close) ", boxWidth-4, screen.HeaderStyle())

	for i, line := range lines {
		screen.DrawStringLimited(startX+2, startY+3+i, line, boxWidth-4, contentStyle)
	}
}
