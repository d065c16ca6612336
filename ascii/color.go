// Package ascii holds the ASCII art logos shown next to the system report and
// the small template language used to colorize them.
//
// Art lines may embed color-switch tokens: "$1".."$9" select an entry of the
// art's palette, "$0" and "$R" (or "$r") switch back to the caller's fallback
// color. Any other "$" is ordinary text.
package ascii

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Color is a named terminal color.
type Color string

const (
	Black   Color = "black"
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Blue    Color = "blue"
	Magenta Color = "magenta"
	Cyan    Color = "cyan"
	White   Color = "white"

	BrightBlack   Color = "bright_black"
	BrightRed     Color = "bright_red"
	BrightGreen   Color = "bright_green"
	BrightYellow  Color = "bright_yellow"
	BrightBlue    Color = "bright_blue"
	BrightMagenta Color = "bright_magenta"
	BrightCyan    Color = "bright_cyan"
	BrightWhite   Color = "bright_white"
)

// colorIndex maps each named color to its slot in the 16 color ANSI table.
var colorIndex = map[Color]int{
	Black:         0,
	Red:           1,
	Green:         2,
	Yellow:        3,
	Blue:          4,
	Magenta:       5,
	Cyan:          6,
	White:         7,
	BrightBlack:   8,
	BrightRed:     9,
	BrightGreen:   10,
	BrightYellow:  11,
	BrightBlue:    12,
	BrightMagenta: 13,
	BrightCyan:    14,
	BrightWhite:   15,
}

// ParseColor converts a user supplied color name to a Color. It accepts
// "purple" for magenta and both "bright_red" and "brightred" spellings.
func ParseColor(name string) (Color, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "purple" {
		return Magenta, true
	}
	if strings.HasPrefix(n, "bright") && !strings.HasPrefix(n, "bright_") {
		n = "bright_" + strings.TrimPrefix(n, "bright")
	}
	if n == "bright_purple" {
		return BrightMagenta, true
	}
	c := Color(n)
	if _, ok := colorIndex[c]; !ok {
		return "", false
	}
	return c, true
}

// Index returns the ANSI palette slot of c, or -1 for an unknown color.
func (c Color) Index() int {
	if i, ok := colorIndex[c]; ok {
		return i
	}
	return -1
}

// Code returns c as an ANSI color code string ("1" for red), the form
// lipgloss accepts. Unknown colors yield "".
func (c Color) Code() string {
	i := c.Index()
	if i < 0 {
		return ""
	}
	return strconv.Itoa(i)
}

// Paint wraps text in the foreground escape sequence for c followed by a
// reset. Unknown or empty colors leave text untouched.
func (c Color) Paint(text string) string {
	i := c.Index()
	if i < 0 || text == "" {
		return text
	}
	return termenv.String(text).Foreground(termenv.ANSIColor(i)).String()
}
