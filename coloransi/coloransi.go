package coloransi

import (
	"fmt"
	"strings"
)

// ColorCode represents ANSI color codes and RGB colors as a 32-bit integer.
// The lower 8 bits represent ANSI color codes, and the upper 24 bits represent RGB values.
type ColorCode uint32

// ANSI color codes
const (
	Black   ColorCode = 30
	Red     ColorCode = 31
	Green   ColorCode = 32
	Yellow  ColorCode = 33
	Blue    ColorCode = 34
	Magenta ColorCode = 35
	Cyan    ColorCode = 36
	White   ColorCode = 37

	// For bright colors, add 60
	BrightBlack   ColorCode = Black + 60
	BrightRed     ColorCode = Red + 60
	BrightGreen   ColorCode = Green + 60
	BrightYellow  ColorCode = Yellow + 60
	BrightBlue    ColorCode = Blue + 60
	BrightMagenta ColorCode = Magenta + 60
	BrightCyan    ColorCode = Cyan + 60
	BrightWhite   ColorCode = White + 60

	// Background colors start at 40
	BackgroundOffset ColorCode = 10

	// RGB color mask
	RGBMask ColorCode = 0xFFFFFF00
)

// CreateRGB creates a ColorCode from RGB values
func CreateRGB(r, g, b uint8) ColorCode {
	return ColorCode(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8)
}

var ColorOrange ColorCode = CreateRGB(255, 140, 0)
var ColorPurple ColorCode = CreateRGB(128, 0, 128)

// Enabled controls whether escape sequences are emitted at all.
// Turn it off when output is not a terminal.
var Enabled = true

// IsRGB checks if the ColorCode represents an RGB color
func (c ColorCode) IsRGB() bool {
	return c&RGBMask != 0
}

// ColorFrom returns a color code based on the given item value,
// so the same item is always shown in the same color.
func ColorFrom(item uint64) ColorCode {
	colors := []ColorCode{
		Red, Green, Yellow, Blue, Magenta, Cyan,
		BrightRed, BrightGreen, BrightYellow, BrightBlue, BrightMagenta, BrightCyan,
	}
	return colors[item%uint64(len(colors))]
}

// Color formats the given text with the specified foreground and background colors.
func Color(fg, bg ColorCode, v ...interface{}) string {
	text := join(v)
	if !Enabled {
		return text
	}
	return OneForeground(fg) + OneBackground(bg) + text + Reset()
}

// Foreground formats the given text with the specified foreground color.
func Foreground(fg ColorCode, v ...interface{}) string {
	text := join(v)
	if !Enabled {
		return text
	}
	return OneForeground(fg) + text + Reset()
}

// OneForeground returns the ANSI escape sequence for the given color code.
func OneForeground(code ColorCode) string {
	if code.IsRGB() {
		r := (code >> 24) & 0xFF
		g := (code >> 16) & 0xFF
		b := (code >> 8) & 0xFF
		return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
	}
	return fmt.Sprintf("\033[%dm", code)
}

// OneBackground returns the ANSI escape sequence for the given background color code.
func OneBackground(code ColorCode) string {
	if code.IsRGB() {
		r := (code >> 24) & 0xFF
		g := (code >> 16) & 0xFF
		b := (code >> 8) & 0xFF
		return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b)
	}
	return fmt.Sprintf("\033[%dm", code+BackgroundOffset)
}

// Reset returns the ANSI escape sequence to reset the text color.
func Reset() string {
	return "\033[0m"
}

// Perms colors a "rwxp" permission string one character at a time
func Perms(perms string) string {
	var sb strings.Builder
	for i, c := range perms {
		color := BrightBlack
		switch {
		case c == '-':
		case i == 0:
			color = Green
		case i == 1:
			color = Yellow
		case i == 2:
			color = Red
		default:
			color = Cyan
		}
		sb.WriteString(Foreground(color, string(c)))
	}
	return sb.String()
}

func join(v []interface{}) string {
	args := make([]string, len(v))
	for i, arg := range v {
		args[i] = fmt.Sprint(arg)
	}
	return strings.Join(args, " ")
}
