package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor reads a theme color value. Accepted forms are #RRGGBB, #RGB,
// rgb(r, g, b) and the color names tcell knows ("green", "darkslategray").
func ParseColor(value string) (tcell.Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	switch {
	case strings.HasPrefix(value, "#"):
		hex := value
		if len(hex) == 4 {
			hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
		}
		c, err := colorful.Hex(hex)
		if err != nil || len(hex) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color %q", value)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil

	case strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")"):
		parts := strings.Split(value[len("rgb("):len(value)-1], ",")
		if len(parts) != 3 {
			return tcell.ColorDefault, fmt.Errorf("invalid rgb color %q", value)
		}
		var rgb [3]int32
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 || n > 255 {
				return tcell.ColorDefault, fmt.Errorf("invalid rgb color %q", value)
			}
			rgb[i] = int32(n)
		}
		return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), nil
	}

	if c, ok := tcell.ColorNames[value]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color %q", value)
}

// Hex is ParseColor for built-in palette literals
func Hex(value string) tcell.Color {
	c, err := ParseColor(value)
	if err != nil {
		return tcell.ColorDefault
	}
	return c
}

// ColorPairToStyle creates a style with specific foreground and background colors
func ColorPairToStyle(fgColor, bgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor).Background(bgColor)
}

// Tint blends base towards accent in Lab space. amount 0 keeps base, 1 gives
// accent. Terminal default colors have no RGB value and are returned as is.
func Tint(base, accent tcell.Color, amount float64) tcell.Color {
	if !base.Valid() || !accent.Valid() || base == tcell.ColorDefault || accent == tcell.ColorDefault {
		return base
	}

	from := toColorful(base)
	to := toColorful(accent)
	r, g, b := from.BlendLab(to, amount).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func toColorful(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}
