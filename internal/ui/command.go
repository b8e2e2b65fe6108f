package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// CommandLine is the `:` prompt on the bottom row
type CommandLine struct {
	active    bool
	input     []rune
	cursorPos int
	history   *History
}

// NewCommandLine creates a command line with the given history. A nil
// history keeps 50 entries in memory.
func NewCommandLine(history *History) *CommandLine {
	if history == nil {
		history = NewHistory(50)
	}
	return &CommandLine{history: history}
}

// Start opens the prompt with empty input
func (c *CommandLine) Start() {
	c.active = true
	c.input = nil
	c.cursorPos = 0
	c.history.Reset()
}

// Stop closes the prompt
func (c *CommandLine) Stop() {
	c.active = false
}

// IsActive reports whether the prompt is open
func (c *CommandLine) IsActive() bool {
	return c.active
}

// Input returns the trimmed input
func (c *CommandLine) Input() string {
	return strings.TrimSpace(string(c.input))
}

// History returns the command history
func (c *CommandLine) History() *History {
	return c.history
}

func (c *CommandLine) setInput(s string) {
	c.input = []rune(s)
	c.cursorPos = len(c.input)
}

// deleteWordBackwards removes the word before the cursor, like Ctrl+W in a shell
func (c *CommandLine) deleteWordBackwards() {
	pos := c.cursorPos
	for pos > 0 && (c.input[pos-1] == ' ' || c.input[pos-1] == '\t') {
		pos--
	}
	for pos > 0 && c.input[pos-1] != ' ' && c.input[pos-1] != '\t' {
		pos--
	}
	c.input = append(c.input[:pos:pos], c.input[c.cursorPos:]...)
	c.cursorPos = pos
}

// HandleKey edits the input. done is true when the prompt closed; command
// is empty when it was cancelled.
func (c *CommandLine) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := c.Input()
		c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyCtrlW:
		c.deleteWordBackwards()
	case tcell.KeyCtrlU:
		c.input = append([]rune(nil), c.input[c.cursorPos:]...)
		c.cursorPos = 0
	case tcell.KeyCtrlK:
		c.input = c.input[:c.cursorPos]
	case tcell.KeyUp:
		if !c.history.IsNavigating() {
			c.history.SetDraft(string(c.input))
		}
		if prev, ok := c.history.Previous(); ok {
			c.setInput(prev)
		}
	case tcell.KeyDown:
		if next, ok := c.history.Next(); ok {
			c.setInput(next)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.cursorPos > 0 {
			c.input = append(c.input[:c.cursorPos-1], c.input[c.cursorPos:]...)
			c.cursorPos--
		} else if len(c.input) == 0 {
			// backspace on an empty prompt leaves command mode
			c.Stop()
			return "", true
		}
	case tcell.KeyDelete:
		if c.cursorPos < len(c.input) {
			c.input = append(c.input[:c.cursorPos], c.input[c.cursorPos+1:]...)
		}
	case tcell.KeyLeft:
		if c.cursorPos > 0 {
			c.cursorPos--
		}
	case tcell.KeyRight:
		if c.cursorPos < len(c.input) {
			c.cursorPos++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		c.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		c.cursorPos = len(c.input)
	case tcell.KeyRune:
		c.input = append(c.input[:c.cursorPos], append([]rune{ev.Rune()}, c.input[c.cursorPos:]...)...)
		c.cursorPos++
	}
	return "", false
}

// Render draws the prompt on row y
func (c *CommandLine) Render(screen *Screen, y int) {
	if !c.active {
		return
	}

	width := screen.GetWidth()
	textStyle := screen.TextStyle()
	cursorStyle := textStyle.Reverse(true)

	screen.FillLine(0, y, textStyle)
	x := screen.DrawString(0, y, ":", screen.StatusModeStyle())
	for i, r := range c.input {
		if x >= width {
			return
		}
		style := textStyle
		if i == c.cursorPos {
			style = cursorStyle
		}
		screen.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	if c.cursorPos >= len(c.input) && x < width {
		screen.SetCell(x, y, ' ', cursorStyle)
	}
}
