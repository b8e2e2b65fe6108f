package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Document colors
	Text       tcell.Color
	Background tcell.Color
	LineNumber tcell.Color

	// Change colors
	Insert  tcell.Color
	Delete  tcell.Color
	Replace tcell.Color
	Ghost   tcell.Color

	// Backgrounds behind changed chunks, tinted towards the change color
	InsertBackground  tcell.Color
	DeleteBackground  tcell.Color
	ReplaceBackground tcell.Color

	// Selected change in the navigator
	SelectedChange tcell.Color

	// Header and status line colors
	HeaderTitle   tcell.Color
	StatusMode    tcell.Color
	StatusMessage tcell.Color
	StatusOff     tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults with the basic
// ANSI colors for changes
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Text:              tcell.ColorDefault,
			Background:        tcell.ColorDefault,
			LineNumber:        tcell.ColorGray,
			Insert:            tcell.ColorGreen,
			Delete:            tcell.ColorRed,
			Replace:           tcell.ColorYellow,
			Ghost:             tcell.ColorGray,
			InsertBackground:  tcell.ColorDefault,
			DeleteBackground:  tcell.ColorDefault,
			ReplaceBackground: tcell.ColorDefault,
			SelectedChange:    tcell.ColorBlue,
			HeaderTitle:       tcell.ColorDefault,
			StatusMode:        tcell.ColorDefault,
			StatusMessage:     tcell.ColorDefault,
			StatusOff:         tcell.ColorGray,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	background := Hex("#1a1b26")
	insert := Hex("#9ece6a")  // Green
	del := Hex("#f7768e")     // Red
	replace := Hex("#e0af68") // Yellow

	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Text:              Hex("#c0caf5"), // Light gray-blue
			Background:        background,
			LineNumber:        Hex("#3b4261"),
			Insert:            insert,
			Delete:            del,
			Replace:           replace,
			Ghost:             Hex("#565f89"), // Comment gray
			InsertBackground:  Tint(background, insert, 0.2),
			DeleteBackground:  Tint(background, del, 0.2),
			ReplaceBackground: Tint(background, replace, 0.2),
			SelectedChange:    Hex("#7aa2f7"), // Blue
			HeaderTitle:       Hex("#bb9af7"), // Magenta
			StatusMode:        Hex("#bb9af7"),
			StatusMessage:     Hex("#9ece6a"),
			StatusOff:         Hex("#565f89"),
		},
	}
}
