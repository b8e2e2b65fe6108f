package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/prompt-diff/internal/diff"
)

const diffViewFooter = "j/k: scroll | v: details | q/Esc: close"

// DiffViewWidget shows the change summary of a diff snapshot in a box over
// the prompt. Verbose mode adds ghost anchors and per-element details.
type DiffViewWidget struct {
	visible  bool
	verbose  bool
	snapshot *diff.Snapshot
	title    string
	lines    []diff.DiffLine

	offset int
	// rows is the number of content rows of the last render
	rows int
}

// NewDiffViewWidget creates a hidden diff view
func NewDiffViewWidget() *DiffViewWidget {
	return &DiffViewWidget{}
}

// Show opens the summary of snapshot at the top
func (dv *DiffViewWidget) Show(snapshot *diff.Snapshot, title string) {
	dv.title = title
	dv.offset = 0
	dv.visible = true
	dv.Update(snapshot)
}

// Update replaces the snapshot, keeping the scroll position where possible
func (dv *DiffViewWidget) Update(snapshot *diff.Snapshot) {
	dv.snapshot = snapshot
	dv.lines = diff.BuildDiffLines(snapshot, dv.verbose)
	dv.scroll(0)
}

// Hide closes the diff view
func (dv *DiffViewWidget) Hide() {
	dv.visible = false
}

// IsVisible returns whether the widget is currently visible
func (dv *DiffViewWidget) IsVisible() bool {
	return dv.visible
}

// Lines returns the summary lines
func (dv *DiffViewWidget) Lines() []diff.DiffLine {
	return dv.lines
}

// HandleKeyEvent scrolls, toggles details or closes the view
func (dv *DiffViewWidget) HandleKeyEvent(ev *tcell.EventKey) {
	if !dv.visible {
		return
	}

	page := dv.rows / 2
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		dv.Hide()
	case tcell.KeyUp:
		dv.scroll(-1)
	case tcell.KeyDown:
		dv.scroll(1)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		dv.scroll(-page)
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		dv.scroll(page)
	case tcell.KeyHome:
		dv.offset = 0
	case tcell.KeyEnd:
		dv.offset = dv.lastOffset()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 's':
			dv.Hide()
		case 'j':
			dv.scroll(1)
		case 'k':
			dv.scroll(-1)
		case 'g':
			dv.offset = 0
		case 'G':
			dv.offset = dv.lastOffset()
		case 'v':
			dv.verbose = !dv.verbose
			dv.Update(dv.snapshot)
		}
	}
}

func (dv *DiffViewWidget) lastOffset() int {
	return max(len(dv.lines)-dv.rows, 0)
}

func (dv *DiffViewWidget) scroll(delta int) {
	dv.offset = clamp(dv.offset+delta, 0, dv.lastOffset())
}

// Render draws the view two cells in from the screen edges
func (dv *DiffViewWidget) Render(screen *Screen) {
	if !dv.visible {
		return
	}

	x, y := 2, 2
	width := screen.GetWidth() - 4
	height := screen.GetHeight() - 4
	if width < 20 || height < 5 {
		return
	}

	drawFrame(screen, x, y, width, height, "Changes: "+dv.title)

	inner := width - 2
	dv.rows = height - 4
	dv.scroll(0)

	for row := 0; row < dv.rows && dv.offset+row < len(dv.lines); row++ {
		line := dv.lines[dv.offset+row]
		text := TruncateToWidthWithEllipsis(strings.Repeat("  ", line.Indent)+line.Content, inner)
		screen.DrawStringLimited(x+1, y+2+row, text, inner, screen.DiffLineStyle(line.Type))
	}

	if len(dv.lines) > dv.rows {
		thumb := y + 2 + dv.offset*dv.rows/len(dv.lines)
		screen.SetCell(x+inner, thumb, '█', screen.BorderStyle())
	}

	screen.DrawStringLimited(x+1, y+height-1, diffViewFooter, inner, screen.TextStyle())
}
