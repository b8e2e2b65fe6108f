package ui

import "github.com/gdamore/tcell/v2"

// drawBox draws a single-line border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	right, bottom := x+width-1, y+height-1

	for i := x + 1; i < right; i++ {
		screen.SetCell(i, y, '─', style)
		screen.SetCell(i, bottom, '─', style)
	}
	for i := y + 1; i < bottom; i++ {
		screen.SetCell(x, i, '│', style)
		screen.SetCell(right, i, '│', style)
	}
	screen.SetCell(x, y, '┌', style)
	screen.SetCell(right, y, '┐', style)
	screen.SetCell(x, bottom, '└', style)
	screen.SetCell(right, bottom, '┘', style)
}

// drawFrame clears a rectangle, borders it and writes title into the top
// border
func drawFrame(screen *Screen, x, y, width, height int, title string) {
	fill := screen.TextStyle()
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetCell(col, row, ' ', fill)
		}
	}

	drawBox(screen, x, y, width, height, screen.BorderStyle())
	if title != "" {
		title = TruncateToWidthWithEllipsis(" "+title+" ", width-4)
		screen.DrawString(x+2, y, title, screen.HeaderStyle())
	}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
