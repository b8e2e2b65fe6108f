package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreenWithTheme creates and initializes a terminal screen with a specific theme
func NewScreenWithTheme(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	return NewScreenFromTCell(tcellScreen, t), nil
}

// NewScreenFromTCell wraps an already initialized tcell screen, such as a
// simulation screen
func NewScreenFromTCell(tcellScreen tcell.Screen, t *theme.Theme) *Screen {
	if t == nil {
		t = theme.Default()
	}
	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position and returns the number
// of columns used. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x+col, y, r, style)
		col += w
	}
	return col
}

// DrawStringLimited draws a string, truncating it if it exceeds maxWidth
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// FillLine paints a row from x to the right edge
func (s *Screen) FillLine(x, y int, style tcell.Style) {
	for ; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, resize, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// TextStyle returns the style for unchanged prompt text
func (s *Screen) TextStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.Background)
}

// LineNumberStyle returns the style for the line number gutter
func (s *Screen) LineNumberStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.LineNumber, s.Theme.Colors.Background)
}

// ChangeStyle returns the style for a chunk marked with an operation
func (s *Screen) ChangeStyle(op diff.ChunkOp) tcell.Style {
	c := s.Theme.Colors
	switch op {
	case diff.OpInsert:
		return theme.ColorPairToStyle(c.Insert, c.InsertBackground)
	case diff.OpDelete:
		return theme.ColorPairToStyle(c.Delete, c.DeleteBackground)
	case diff.OpReplace:
		return theme.ColorPairToStyle(c.Replace, c.ReplaceBackground)
	default:
		return s.TextStyle()
	}
}

// GhostStyle returns the style for a deleted chunk shown in the after view
func (s *Screen) GhostStyle(op diff.ChunkOp) tcell.Style {
	c := s.Theme.Colors
	bg := c.DeleteBackground
	if op == diff.OpReplace {
		bg = c.ReplaceBackground
	}
	return theme.ColorPairToStyle(c.Ghost, bg).StrikeThrough(true)
}

// SelectedStyle marks the chunks of the selected change
func (s *Screen) SelectedStyle(base tcell.Style) tcell.Style {
	return base.Underline(true).Bold(true)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HeaderTitle, s.Theme.Colors.Background).Bold(true)
}

// StatusModeStyle returns the style for the view indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMode, s.Theme.Colors.Background).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMessage, s.Theme.Colors.Background)
}

// StatusOffStyle returns the style for the overlay-off indicator
func (s *Screen) StatusOffStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusOff, s.Theme.Colors.Background)
}

// BorderStyle returns the style for box borders
func (s *Screen) BorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.SelectedChange, s.Theme.Colors.Background)
}

// DiffLineStyle returns the style for a line of the diff summary
func (s *Screen) DiffLineStyle(lineType diff.DiffLineType) tcell.Style {
	switch lineType {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return s.HeaderStyle()
	case diff.DiffTypeNewSection, diff.DiffTypeNewItem:
		return theme.ColorPairToStyle(s.Theme.Colors.Insert, s.Theme.Colors.Background)
	case diff.DiffTypeDeletedSection, diff.DiffTypeDeletedItem:
		return theme.ColorPairToStyle(s.Theme.Colors.Delete, s.Theme.Colors.Background)
	case diff.DiffTypeModifiedSection, diff.DiffTypeModifiedItem:
		return theme.ColorPairToStyle(s.Theme.Colors.Replace, s.Theme.Colors.Background)
	case diff.DiffTypeItemDetail:
		return theme.ColorPairToStyle(s.Theme.Colors.Ghost, s.Theme.Colors.Background)
	default:
		return s.TextStyle()
	}
}
